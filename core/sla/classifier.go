// Package sla classifies a message thread's reply obligation for the
// internal-ops responsiveness dashboard. The bucketing is informational
// triage, never deadline enforcement.
package sla

import (
	"time"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
)

const (
	bucketShort = 2 * time.Hour
	bucketLong  = 24 * time.Hour
)

// Classify scans the thread and derives who owes the next reply and how
// overdue it is. Malformed timestamps are discarded, not fatal; unknown
// sender roles are kept for last-message display but never create an
// obligation. The caller injects now so the result is a pure function of
// its inputs.
func Classify(messages []model.ThreadMessage, now time.Time) model.QuoteThreadReplyStatus {
	res := model.QuoteThreadReplyStatus{
		NeedsReply: model.ReplyNone,
		Bucket:     model.BucketNone,
	}

	var (
		lastAt   string
		lastTime time.Time
		lastRole model.SenderRole
		hasRole  bool
		found    bool
	)
	for _, m := range messages {
		t, err := time.Parse(time.RFC3339, m.CreatedAt)
		if err != nil {
			continue
		}
		// The parsed instant is the comparison key, so offsets and
		// fractional seconds are ordered correctly. Ties keep the first
		// message seen.
		if found && !t.After(lastTime) {
			continue
		}
		found = true
		lastAt = t.UTC().Format(time.RFC3339Nano)
		lastTime = t
		lastRole, hasRole = model.NormalizeRole(m.SenderRole)
	}
	if !found {
		return res
	}

	res.LastMessageAt = lastAt
	if hasRole {
		res.LastSenderRole = lastRole
	}

	if !hasRole {
		return res
	}
	switch lastRole {
	case model.RoleCustomer, model.RoleSupplier:
		res.NeedsReply = model.ReplyAdmin
	case model.RoleAdmin:
		res.NeedsReply = model.ReplyCustomer
	default:
		// System messages never create an obligation.
		return res
	}

	if res.NeedsReply != model.ReplyAdmin {
		return res
	}
	age := now.Sub(lastTime)
	switch {
	case age < bucketShort:
		res.Bucket = model.BucketUnder2h
	case age < bucketLong:
		res.Bucket = model.BucketUnder24h
	default:
		res.Bucket = model.BucketOver24h
	}
	return res
}
