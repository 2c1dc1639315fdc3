package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jtdaniels/QA3/internal/quiz"
)

type mockCredentialStore struct {
	mock.Mock
}

func (m *mockCredentialStore) GetAdminDigest(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockCredentialStore) UpdateAdminDigest(ctx context.Context, digest string) error {
	args := m.Called(ctx, digest)
	return args.Error(0)
}

func TestVerifyDigest(t *testing.T) {
	stored := Digest("password")

	require.True(t, VerifyDigest("password", stored))
	require.False(t, VerifyDigest("Password", stored))
	require.False(t, VerifyDigest("", stored))
}

func TestAuthService_Login_DefaultPassword(t *testing.T) {
	creds := new(mockCredentialStore)
	svc := NewAuthService(creds, "test-secret")

	creds.On("GetAdminDigest", mock.Anything).Return(Digest("password"), nil).Once()

	token, err := svc.Login(context.Background(), "password")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ParseToken(token))

	creds.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	creds := new(mockCredentialStore)
	svc := NewAuthService(creds, "test-secret")

	creds.On("GetAdminDigest", mock.Anything).Return(Digest("password"), nil).Once()

	_, err := svc.Login(context.Background(), "letmein")
	require.ErrorIs(t, err, quiz.ErrAuthentication)

	creds.AssertNotCalled(t, "UpdateAdminDigest", mock.Anything, mock.Anything)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	svc := NewAuthService(new(mockCredentialStore), "test-secret")

	require.ErrorIs(t, svc.ParseToken("not-a-token"), quiz.ErrAuthentication)
	require.ErrorIs(t, svc.ParseToken(""), quiz.ErrAuthentication)
}

func TestAuthService_ParseToken_WrongSecret(t *testing.T) {
	creds := new(mockCredentialStore)
	issuer := NewAuthService(creds, "secret-a")
	verifier := NewAuthService(creds, "secret-b")

	creds.On("GetAdminDigest", mock.Anything).Return(Digest("password"), nil).Once()

	token, err := issuer.Login(context.Background(), "password")
	require.NoError(t, err)

	require.ErrorIs(t, verifier.ParseToken(token), quiz.ErrAuthentication)
}

func TestAuthService_ChangePassword(t *testing.T) {
	creds := new(mockCredentialStore)
	svc := NewAuthService(creds, "test-secret")

	creds.On("GetAdminDigest", mock.Anything).Return(Digest("password"), nil).Once()
	creds.On("UpdateAdminDigest", mock.Anything, Digest("hunter2")).Return(nil).Once()

	err := svc.ChangePassword(context.Background(), "password", "hunter2")
	require.NoError(t, err)

	creds.AssertExpectations(t)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	creds := new(mockCredentialStore)
	svc := NewAuthService(creds, "test-secret")

	creds.On("GetAdminDigest", mock.Anything).Return(Digest("password"), nil).Once()

	err := svc.ChangePassword(context.Background(), "wrong", "hunter2")
	require.ErrorIs(t, err, quiz.ErrAuthentication)

	creds.AssertNotCalled(t, "UpdateAdminDigest", mock.Anything, mock.Anything)
}

func TestAuthService_ChangePassword_EmptyNew(t *testing.T) {
	creds := new(mockCredentialStore)
	svc := NewAuthService(creds, "test-secret")

	err := svc.ChangePassword(context.Background(), "password", "   ")
	require.ErrorIs(t, err, quiz.ErrValidation)

	creds.AssertNotCalled(t, "GetAdminDigest", mock.Anything)
}
