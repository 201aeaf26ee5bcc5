package model

import "strings"

// SenderRole is the canonical author role of a thread message.
type SenderRole string

const (
	RoleCustomer SenderRole = "customer"
	RoleSupplier SenderRole = "supplier"
	RoleAdmin    SenderRole = "admin"
	RoleSystem   SenderRole = "system"
)

// roleAliases maps legacy role tokens from older message rows onto the
// canonical set.
var roleAliases = map[string]SenderRole{
	"customer": RoleCustomer,
	"buyer":    RoleCustomer,
	"client":   RoleCustomer,
	"supplier": RoleSupplier,
	"vendor":   RoleSupplier,
	"provider": RoleSupplier,
	"admin":    RoleAdmin,
	"staff":    RoleAdmin,
	"ops":      RoleAdmin,
	"system":   RoleSystem,
	"bot":      RoleSystem,
}

// NormalizeRole maps a raw role token onto the canonical set. Unrecognized
// or missing tokens report ok=false; that is a normal data condition for
// legacy rows, never an error.
func NormalizeRole(raw string) (SenderRole, bool) {
	r, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]
	return r, ok
}

// ThreadMessage is a read-only message record as supplied by the messaging
// store. CreatedAt is an ISO-8601 timestamp string; malformed values are
// discarded by the classifier rather than raised.
type ThreadMessage struct {
	CreatedAt  string `json:"created_at"`
	SenderRole string `json:"sender_role,omitempty"`
}

// ReplyOwner identifies who owes the next reply on a thread.
type ReplyOwner string

const (
	ReplyAdmin    ReplyOwner = "admin"
	ReplyCustomer ReplyOwner = "customer"
	ReplyNone     ReplyOwner = "none"
)

// SlaBucket is the coarse age classification of an outstanding admin reply
// obligation. It is informational triage data, never deadline enforcement.
type SlaBucket string

const (
	BucketUnder2h  SlaBucket = "<2h"
	BucketUnder24h SlaBucket = "<24h"
	BucketOver24h  SlaBucket = ">24h"
	BucketNone     SlaBucket = "none"
)

// QuoteThreadReplyStatus is the derived reply obligation of a thread.
// Bucket is meaningful only when NeedsReply is ReplyAdmin; otherwise it is
// always BucketNone.
type QuoteThreadReplyStatus struct {
	LastMessageAt  string     `json:"last_message_at,omitempty"`
	LastSenderRole SenderRole `json:"last_message_author_role,omitempty"`
	NeedsReply     ReplyOwner `json:"needs_reply_role"`
	Bucket         SlaBucket  `json:"sla_bucket"`
}
