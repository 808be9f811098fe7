package database

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const delegationsCollection = "delegations"

// DelegationRecord captures one delegation round trip for auditing: the
// request forwarded to an agent and what came back.
type DelegationRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Correlation
	RequestID string `bson:"request_id,omitempty" json:"request_id,omitempty"`
	SessionID string `bson:"session_id,omitempty" json:"session_id,omitempty"`

	// Routing outcome
	TargetAgent string `bson:"target_agent" json:"target_agent"`
	Rule        string `bson:"rule,omitempty" json:"rule,omitempty"`
	Model       string `bson:"model" json:"model"`
	Endpoint    string `bson:"endpoint,omitempty" json:"endpoint,omitempty"`

	// Payloads
	Request  interface{} `bson:"request,omitempty" json:"request,omitempty"`
	Response interface{} `bson:"response,omitempty" json:"response,omitempty"`

	// Result
	StatusCode   int    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	ErrorMessage string `bson:"error_message,omitempty" json:"error_message,omitempty"`
	ErrorType    string `bson:"error_type,omitempty" json:"error_type,omitempty"`

	// Timings
	RequestedAt time.Time `bson:"requested_at" json:"requested_at"`
	RespondedAt time.Time `bson:"responded_at" json:"responded_at"`
	DurationMs  int64     `bson:"duration_ms" json:"duration_ms"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`

	Environment string `bson:"environment,omitempty" json:"environment,omitempty"`
}
