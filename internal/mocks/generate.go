// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the auth ports. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	verifier := mocks.NewMockCredentialVerifier(ctrl)
//	verifier.EXPECT().VerifyToken(gomock.Any(), "tok").Return(identity, nil)
package mocks

// Generate mock for CredentialVerifier from internal/ports.
// This creates MockCredentialVerifier with Login, VerifyToken, RefreshToken, Logout.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_verifier_mock.go github.com/target/fraudwatch-ui-api/internal/ports CredentialVerifier

// Generate mock for SessionRecordStore from internal/ports.
// This creates MockSessionRecordStore with Save, Get, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_record_store_mock.go github.com/target/fraudwatch-ui-api/internal/ports SessionRecordStore
