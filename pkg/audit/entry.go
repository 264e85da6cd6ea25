package audit

import (
	"fmt"
	"strconv"
)

// Resource types recorded in audit entries.
const (
	ResourceCredential = "credential"
	ResourceCustomer   = "customer"
	ResourceProject    = "project"
	ResourceVendor     = "vendor"
	ResourcePermission = "permission"
)

// Entry is the audit record for one operation. Details must name fields,
// never secret values. Denied marks an attempt that was refused.
type Entry struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   *int64
	CustomerID   *int64
	ProjectID    *int64
	VendorID     *int64
	CredentialID *int64
	Details      string
	IPAddress    string
	UserAgent    string
	Denied       bool
}

// Ensure Entry implements Event
var _ Event = Entry{}

func (e Entry) MessageID() string {
	return e.Action
}

func (e Entry) Message() string {
	subject := e.ResourceType
	if e.ResourceID != nil {
		subject = fmt.Sprintf("%s %d", e.ResourceType, *e.ResourceID)
	}
	var msg string
	if e.Denied {
		msg = fmt.Sprintf("%s was denied %s on %s", e.UserID, e.Action, subject)
	} else {
		msg = fmt.Sprintf("%s performed %s on %s", e.UserID, e.Action, subject)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

func (e Entry) Severity() Severity {
	if e.Denied {
		return SeverityWarning
	}
	return SeverityInfo
}

func (e Entry) Facility() int {
	return FacilityAuthPriv
}

func (e Entry) StructuredData() map[string]map[string]string {
	subject := map[string]string{
		"resource": e.ResourceType,
	}
	if e.ResourceID != nil {
		subject["id"] = strconv.FormatInt(*e.ResourceID, 10)
	}
	if e.CustomerID != nil {
		subject["customer"] = strconv.FormatInt(*e.CustomerID, 10)
	}
	if e.ProjectID != nil {
		subject["project"] = strconv.FormatInt(*e.ProjectID, 10)
	}
	if e.VendorID != nil {
		subject["vendor"] = strconv.FormatInt(*e.VendorID, 10)
	}
	if e.CredentialID != nil {
		subject["credential"] = strconv.FormatInt(*e.CredentialID, 10)
	}

	result := "success"
	if e.Denied {
		result = "failure"
	}

	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: subject,
		SDIDAction: {
			"operation": e.Action,
			"result":    result,
		},
	}
	if e.IPAddress != "" || e.UserAgent != "" {
		client := map[string]string{}
		if e.IPAddress != "" {
			client["ip"] = e.IPAddress
		}
		if e.UserAgent != "" {
			client["agent"] = e.UserAgent
		}
		sd[SDIDClient] = client
	}
	return sd
}
