// Package types holds the domain entities shared across the definition
// catalog, case store, step ledger, rule evaluator and advancer. They are
// plain structs mapped field-by-field to and from persistence rows; none
// of them carry storage-specific tags or behavior.
package types

import (
	"strings"
	"time"
)

// Status is a named state used by Process and Step. "busy" and "complete"
// are required seed rows; administrators may add others for display
// purposes, but only busy/complete are meaningful to the Step Advancer.
type Status struct {
	StatusNo    int64  `json:"statusno"`
	Description string `json:"description"`
	Tmstamp     time.Time `json:"tmstamp"`
	Usrid       string `json:"usrid"`
}

// ProcessType groups ProcessDefinitions that implement the same kind of
// business process (e.g. "loan application", "support ticket").
type ProcessType struct {
	ProcessTypeNo int64     `json:"process_type_no"`
	Description   string    `json:"description"`
	Tmstamp       time.Time `json:"tmstamp"`
	Usrid         string    `json:"usrid"`
}

// ProcessDefinition is a versioned template naming which Task starts a
// Process of a given ProcessType. Several definitions of one ProcessType
// may be active at once; Cases are created against the active one with
// the highest version, per invariant 8.
type ProcessDefinition struct {
	ProcessDefinitionNo int64     `json:"process_definition_no"`
	ProcessTypeNo       int64     `json:"process_type_no"`
	StartTaskNo         int64     `json:"start_task_no"`
	Version             int       `json:"version"`
	IsActive            bool      `json:"is_active"`
	Tmstamp             time.Time `json:"tmstamp"`
	Usrid               string    `json:"usrid"`
}

// Task is a node in the workflow graph belonging to a ProcessDefinition.
type Task struct {
	Taskno               int64     `json:"taskno"`
	ProcessDefinitionNo  int64     `json:"process_definition_no"`
	Description          string    `json:"description"`
	Reference            string    `json:"reference"`
	Tmstamp              time.Time `json:"tmstamp"`
	Usrid                string    `json:"usrid"`
}

// TaskRule is a directed, conditionally-taken edge out of a Task. Rule
// text "default" is the sentinel fallback recognized by the Step Advancer;
// NextTaskNo == nil terminates the Process when the rule is selected.
type TaskRule struct {
	Taskruleno  int64     `json:"taskruleno"`
	Taskno      int64     `json:"taskno"`
	Rule        string    `json:"rule"`
	NextTaskNo  *int64    `json:"next_task_no"`
	Tmstamp     time.Time `json:"tmstamp"`
	Usrid       string    `json:"usrid"`
}

// IsDefault reports whether this rule is the sentinel "default" fallback
// rule recognized by the Step Advancer, independent of surrounding
// whitespace/case that administrators might introduce by hand.
func (r TaskRule) IsDefault() bool {
	return strings.EqualFold(strings.TrimSpace(r.Rule), "default")
}

// ProcessDataType names a category of ProcessData values (e.g. "amount",
// "flag") that TaskRules reference by description.
type ProcessDataType struct {
	ProcessDataTypeNo int64     `json:"process_data_type_no"`
	Description       string    `json:"description"`
	Tmstamp           time.Time `json:"tmstamp"`
	Usrid             string    `json:"usrid"`
}

// Case is a business file initiated by a user, owning one or more
// Processes.
type Case struct {
	Caseno      int64     `json:"caseno"`
	ClientID    string    `json:"client_id"`
	ClientType  string    `json:"client_type"`
	DateCreated time.Time `json:"date_created"`
	Usrid       string    `json:"usrid"`
	Tmstamp     time.Time `json:"tmstamp"`
}

// Process is a single execution of a ProcessDefinition against a Case.
type Process struct {
	Processno     int64      `json:"processno"`
	CaseNo        int64      `json:"case_no"`
	ProcessTypeNo int64      `json:"process_type_no"`
	StatusNo      int64      `json:"status_no"`
	DateStarted   time.Time  `json:"date_started"`
	DateEnded     *time.Time `json:"date_ended"`
	Tmstamp       time.Time  `json:"tmstamp"`
	Usrid         string     `json:"usrid"`
}

// Step is a historical record that a particular Task of a particular
// Process was entered (busy) and later closed (complete). Closed Steps
// are immutable (invariant 2).
type Step struct {
	Stepno      int64      `json:"stepno"`
	Processno   int64      `json:"processno"`
	Taskno      int64      `json:"taskno"`
	StatusNo    int64      `json:"status_no"`
	DateStarted time.Time  `json:"date_started"`
	DateEnded   *time.Time `json:"date_ended"`
	Tmstamp     time.Time  `json:"tmstamp"`
	Usrid       string     `json:"usrid"`
}

// ProcessData is a typed, named string attached to a Process, consulted
// by TaskRules. Values are untyped strings by design (invariant 6).
type ProcessData struct {
	ProcessDataNo     int64     `json:"process_data_no"`
	Processno         int64     `json:"processno"`
	ProcessDataTypeNo int64     `json:"process_data_type_no"`
	Fieldname         string    `json:"fieldname"`
	Value             string    `json:"value"`
	Tmstamp           time.Time `json:"tmstamp"`
	Usrid             string    `json:"usrid"`
}

// Role is the caller role recognized by the Authorization Gate.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an authenticated principal. Password hashing is handled by the
// authz package; this struct never holds a plaintext password.
type User struct {
	Usrid        string    `json:"usrid"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	DateCreated  time.Time `json:"date_created"`
}
