package gorm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	gormio "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/credstore/pkg/model"
)

// testDB opens a fresh named in-memory SQLite database. cache=shared keeps
// the database alive across the connections GORM pools.
func testDB(t *testing.T) *gormio.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gormio.Open(sqlite.Open(dsn), &gormio.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Customer{},
		&model.Project{},
		&model.Vendor{},
		&model.Credential{},
		&model.UserPermission{},
		&model.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

// seedScope inserts one customer, one project under it and one vendor,
// returning their ids.
func seedScope(t *testing.T, db *gormio.DB) (customerID, projectID, vendorID int64) {
	t.Helper()

	customer := &model.Customer{Name: "acme"}
	require.NoError(t, db.Create(customer).Error)
	project := &model.Project{CustomerID: customer.ID, Name: "billing"}
	require.NoError(t, db.Create(project).Error)
	vendor := &model.Vendor{Name: "stripe", DisplayName: "Stripe"}
	require.NoError(t, db.Create(vendor).Error)

	return customer.ID, project.ID, vendor.ID
}
