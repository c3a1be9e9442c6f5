package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/auth"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/validation"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateConfirmCode(ctx context.Context, id, codeHash string) error {
	args := m.Called(ctx, id, codeHash)
	return args.Error(0)
}

// ConsumeConfirmCode runs the verify closure against the stored hash of
// the user configured via On(...).Return, and replaces the hash on
// success. This mirrors the transactional check-and-invalidate closely
// enough to cover replay behavior.
func (m *MockUserRepository) ConsumeConfirmCode(ctx context.Context, username string, verify func(codeHash string) error, replacementHash string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	user := args.Get(0).(*models.User)
	if err := verify(user.ConfirmCode); err != nil {
		return nil, err
	}
	user.ConfirmCode = replacementHash
	return user, args.Error(1)
}

// recordingMailer captures outgoing mail so tests can read the code back.
type recordingMailer struct {
	recipient string
	subject   string
	body      string
	sent      int
}

func (m *recordingMailer) Send(ctx context.Context, recipient, subject, body string) error {
	m.recipient = recipient
	m.subject = subject
	m.body = body
	m.sent++
	return nil
}

// lastCode pulls the confirm code out of the mail body; the code is the
// last whitespace-separated token.
func (m *recordingMailer) lastCode() string {
	fields := strings.Fields(m.body)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret-test-secret-test-secret!",
		AccessTokenTTL: 15 * time.Minute,
	}
}

func TestSignUp_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mail := &recordingMailer{}
	authService := NewAuthService(mockUserRepo, mail, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.SignUp(context.Background(), "testuser", "test@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "test@example.com", mail.recipient)
	// the stored hash must match the mailed plaintext, and only that
	assert.NoError(t, auth.VerifyCode(user.ConfirmCode, mail.lastCode()))
	assert.Error(t, auth.VerifyCode(user.ConfirmCode, "some-other-code"))
	mockUserRepo.AssertExpectations(t)
}

func TestSignUp_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mail := &recordingMailer{}
	authService := NewAuthService(mockUserRepo, mail, testConfig())

	existing := &models.User{Username: "testuser"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(existing, nil)

	user, err := authService.SignUp(context.Background(), "testuser", "test@example.com")

	assert.ErrorIs(t, err, ErrUsernameInUse)
	assert.Nil(t, user)
	assert.Zero(t, mail.sent)
	mockUserRepo.AssertExpectations(t)
}

func TestSignUp_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mail := &recordingMailer{}
	authService := NewAuthService(mockUserRepo, mail, testConfig())

	existing := &models.User{Email: "test@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(existing, nil)

	user, err := authService.SignUp(context.Background(), "testuser", "test@example.com")

	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestSignUp_ReservedUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	user, err := authService.SignUp(context.Background(), "me", "me@example.com")

	assert.ErrorIs(t, err, validation.ErrReserved)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_InsertRaceMapsToConflict(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "uni_users_username"})

	user, err := authService.SignUp(context.Background(), "testuser", "test@example.com")

	assert.ErrorIs(t, err, ErrUsernameInUse)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

// A losing insert race on the email constraint must surface as the email
// conflict, not the username one.
func TestSignUp_EmailInsertRaceMapsToEmailConflict(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "uni_users_email"})

	user, err := authService.SignUp(context.Background(), "testuser", "test@example.com")

	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestSignIn_IssuesFreshCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mail := &recordingMailer{}
	authService := NewAuthService(mockUserRepo, mail, testConfig())

	oldHash, err := auth.HashCode("old-code")
	assert.NoError(t, err)
	existing := &models.User{ID: "u-1", Username: "testuser", Email: "test@example.com", ConfirmCode: oldHash}

	var storedHash string
	mockUserRepo.On("FindByUsernameAndEmail", mock.Anything, "testuser", "test@example.com").Return(existing, nil)
	mockUserRepo.On("UpdateConfirmCode", mock.Anything, "u-1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).
		Return(nil)

	user, err := authService.SignIn(context.Background(), "testuser", "test@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, 1, mail.sent)
	// the new stored hash matches the mailed code; the old code is dead
	assert.NoError(t, auth.VerifyCode(storedHash, mail.lastCode()))
	assert.Error(t, auth.VerifyCode(storedHash, "old-code"))
	mockUserRepo.AssertExpectations(t)
}

func TestSignIn_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	mockUserRepo.On("FindByUsernameAndEmail", mock.Anything, "ghost", "ghost@example.com").
		Return(nil, gorm.ErrRecordNotFound)

	user, err := authService.SignIn(context.Background(), "ghost", "ghost@example.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	codeHash, err := auth.HashCode("the-code")
	assert.NoError(t, err)
	user := &models.User{ID: "u-1", Username: "testuser", Role: models.RoleModerator, ConfirmCode: codeHash}
	mockUserRepo.On("ConsumeConfirmCode", mock.Anything, "testuser").Return(user, nil)

	token, err := authService.Token(context.Background(), "testuser", "the-code")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, models.RoleModerator, claims.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestToken_WrongCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	codeHash, err := auth.HashCode("the-code")
	assert.NoError(t, err)
	user := &models.User{ID: "u-1", Username: "testuser", ConfirmCode: codeHash}
	mockUserRepo.On("ConsumeConfirmCode", mock.Anything, "testuser").Return(user, nil)

	token, err := authService.Token(context.Background(), "testuser", "not-the-code")

	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, token)
}

func TestToken_CodeCannotBeReplayed(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	codeHash, err := auth.HashCode("the-code")
	assert.NoError(t, err)
	user := &models.User{ID: "u-1", Username: "testuser", ConfirmCode: codeHash}
	mockUserRepo.On("ConsumeConfirmCode", mock.Anything, "testuser").Return(user, nil)

	token, err := authService.Token(context.Background(), "testuser", "the-code")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// the exchange replaced the stored hash, so the same code now fails
	token, err = authService.Token(context.Background(), "testuser", "the-code")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, token)
}

func TestToken_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	mockUserRepo.On("ConsumeConfirmCode", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	token, err := authService.Token(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, token)
}

func TestValidateToken_BadSignature(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, &recordingMailer{}, testConfig())

	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-secret-another-secret-ok!!!!"
	otherService := NewAuthService(mockUserRepo, &recordingMailer{}, otherCfg)

	codeHash, err := auth.HashCode("the-code")
	assert.NoError(t, err)
	user := &models.User{ID: "u-1", Username: "testuser", ConfirmCode: codeHash}
	mockUserRepo.On("ConsumeConfirmCode", mock.Anything, "testuser").Return(user, nil)

	token, err := otherService.Token(context.Background(), "testuser", "the-code")
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), &recordingMailer{}, testConfig())

	claims, err := authService.ValidateToken("not.a.token")

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
