// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth

import (
	"context"
	"fmt"
)

// Message is an outbound notification.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Notifier delivers messages to guardians out-of-band. Delivery is not
// retried by the flows; failures propagate to the caller.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// ResetCodeMessage builds the forget-password notification carrying the
// plaintext reset code.
func ResetCodeMessage(from string, guardian *Guardian, code string) Message {
	name := guardian.FullName()
	return Message{
		From:    from,
		To:      guardian.Email,
		Subject: fmt.Sprintf("%s, here is your verification code", name),
		Body: fmt.Sprintf(
			"Hello %s,\n\n"+
				"We received a request to reset the password of your PetJournal account.\n\n"+
				"%s\n\n"+
				"Enter this code to complete the reset.\n\n"+
				"Thank you for helping us keep your account secure.\n"+
				"The PetJournal team\n",
			name, code),
	}
}
