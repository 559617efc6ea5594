// Package domain holds the outbound-message vocabulary shared by the
// dispatch gateway, repository and reconciler.
package domain

import "strconv"

// Channel is the delivery method actually used for a message.
type Channel string

const (
	ChannelAlimtalk Channel = "alimtalk"
	ChannelSMS      Channel = "sms"
)

// Status is the delivery lifecycle state of a message.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// StatusFromProviderCode maps the provider's numeric result code onto a
// message status. 2000 means handset-confirmed delivery, the 3000 range
// means accepted by the carrier, 4000 and above are failures. An empty
// code leaves the message pending; codes outside the known ranges are
// treated as sent so an unrecognized intermediate code never downgrades
// a message to failed.
func StatusFromProviderCode(code string) Status {
	if code == "" {
		return StatusPending
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return StatusSent
	}
	switch {
	case n == 2000:
		return StatusDelivered
	case n >= 3000 && n < 4000:
		return StatusSent
	case n >= 4000:
		return StatusFailed
	}
	return StatusSent
}
