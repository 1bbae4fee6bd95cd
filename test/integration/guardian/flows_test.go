// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

//go:build integration

package guardian_test

import (
	"context"
	"regexp"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/petjournal/guardian/internal/auth"
)

// captureNotifier records outgoing messages instead of delivering them.
type captureNotifier struct {
	messages []auth.Message
}

func (n *captureNotifier) Send(_ context.Context, msg auth.Message) error {
	n.messages = append(n.messages, msg)
	return nil
}

// lastCode extracts the reset code from the most recent message body.
func (n *captureNotifier) lastCode() string {
	Expect(n.messages).NotTo(BeEmpty())
	body := n.messages[len(n.messages)-1].Body
	match := regexp.MustCompile(`\d{6}`).FindString(body)
	Expect(match).NotTo(BeEmpty())
	return match
}

var _ = Describe("Credential flows", func() {
	var (
		notifier *captureNotifier
		register *auth.RegisterService
		login    *auth.Service
		forget   *auth.ForgetPasswordService
		confirm  *auth.ResetCodeService
	)

	draft := auth.Draft{
		FirstName: "Frida",
		LastName:  "Kahlo",
		Email:     "frida@example.com",
		Phone:     "11987654321",
		Password:  "correct-horse-battery",
	}

	BeforeEach(func() {
		env.truncateGuardians()
		notifier = &captureNotifier{}

		var err error
		register, err = auth.NewRegisterService(env.Guardians, env.Hasher)
		Expect(err).NotTo(HaveOccurred())
		login, err = auth.NewAuthService(env.Guardians, env.Hasher, env.Tokens)
		Expect(err).NotTo(HaveOccurred())
		forget, err = auth.NewForgetPasswordService(env.Guardians, env.Hasher, notifier, "noreply@example.com")
		Expect(err).NotTo(HaveOccurred())
		confirm, err = auth.NewResetCodeService(env.Guardians, env.Hasher, env.Tokens)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("registration", func() {
		It("stores a guardian retrievable by email regardless of case", func() {
			created, err := register.Register(env.ctx, draft)
			Expect(err).NotTo(HaveOccurred())

			found, err := env.Guardians.GetByEmail(env.ctx, "FRIDA@EXAMPLE.COM")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(created.ID))
			Expect(found.PasswordHash).NotTo(Equal(draft.Password))
		})

		It("rejects a duplicate email", func() {
			_, err := register.Register(env.ctx, draft)
			Expect(err).NotTo(HaveOccurred())

			dup := draft
			dup.Phone = "11999999999"
			_, err = register.Register(env.ctx, dup)
			Expect(err).To(MatchError(auth.ErrConflict))
		})

		It("rejects a duplicate phone", func() {
			_, err := register.Register(env.ctx, draft)
			Expect(err).NotTo(HaveOccurred())

			dup := draft
			dup.Email = "other@example.com"
			_, err = register.Register(env.ctx, dup)
			Expect(err).To(MatchError(auth.ErrConflict))
		})
	})

	Describe("login", func() {
		BeforeEach(func() {
			_, err := register.Register(env.ctx, draft)
			Expect(err).NotTo(HaveOccurred())
		})

		It("issues and persists an access token for valid credentials", func() {
			token, err := login.Authenticate(env.ctx, draft.Email, draft.Password)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			stored, err := env.Guardians.GetByEmail(env.ctx, draft.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AccessToken).To(Equal(token))
		})

		It("rejects a wrong password", func() {
			_, err := login.Authenticate(env.ctx, draft.Email, "wrong")
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email", func() {
			_, err := login.Authenticate(env.ctx, "nobody@example.com", draft.Password)
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})
	})

	Describe("password recovery", func() {
		BeforeEach(func() {
			_, err := register.Register(env.ctx, draft)
			Expect(err).NotTo(HaveOccurred())
		})

		It("delivers a code that unlocks a recovery token exactly once", func() {
			ok, err := forget.RequestReset(env.ctx, draft.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			code := notifier.lastCode()

			token, err := confirm.Authenticate(env.ctx, draft.Email, code)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			stored, err := env.Guardians.GetByEmail(env.ctx, draft.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AccessToken).To(Equal(token))
			Expect(stored.VerificationTokenHash).To(BeEmpty())

			// The same code must not work a second time.
			_, err = confirm.Authenticate(env.ctx, draft.Email, code)
			Expect(err).To(MatchError(auth.ErrInvalidResetCode))
		})

		It("stores only a hash of the code", func() {
			ok, err := forget.RequestReset(env.ctx, draft.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			code := notifier.lastCode()
			stored, err := env.Guardians.GetByEmail(env.ctx, draft.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.VerificationTokenHash).NotTo(BeEmpty())
			Expect(stored.VerificationTokenHash).NotTo(ContainSubstring(code))
		})

		It("quietly ignores an unknown email", func() {
			ok, err := forget.RequestReset(env.ctx, "nobody@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(notifier.messages).To(BeEmpty())
		})

		It("rejects a wrong code without burning the pending one", func() {
			ok, err := forget.RequestReset(env.ctx, draft.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			_, err = confirm.Authenticate(env.ctx, draft.Email, "000000")
			if err == nil {
				// Astronomically unlikely: the generated code was 000000.
				Skip("generated code collided with the probe value")
			}
			Expect(err).To(MatchError(auth.ErrInvalidResetCode))

			// The real code still works afterwards.
			_, err = confirm.Authenticate(env.ctx, draft.Email, notifier.lastCode())
			Expect(err).NotTo(HaveOccurred())
		})

		It("a later request supersedes the earlier code", func() {
			_, err := forget.RequestReset(env.ctx, draft.Email)
			Expect(err).NotTo(HaveOccurred())
			firstCode := notifier.lastCode()

			_, err = forget.RequestReset(env.ctx, draft.Email)
			Expect(err).NotTo(HaveOccurred())
			secondCode := notifier.lastCode()

			if firstCode == secondCode {
				Skip("consecutive codes collided")
			}

			_, err = confirm.Authenticate(env.ctx, draft.Email, firstCode)
			Expect(err).To(MatchError(auth.ErrInvalidResetCode))

			_, err = confirm.Authenticate(env.ctx, draft.Email, secondCode)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
