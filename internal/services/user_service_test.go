package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// MockUserRepository, UserRepositoryInterface için sahte (mock) bir yapıdır.
type MockUserRepository struct {
	mock.Mock
}

var _ interfaces.UserRepositoryInterface = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(user *models.CreateUserRequest) (*models.User, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// TestUserService_Register_Success, yeni kullanıcının default rolle kaydedildiğini test eder.
func TestUserService_Register_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	req := &models.CreateUserRequest{
		Name:     "İlhan",
		Email:    "ilhan@example.com",
		Password: "gizli123",
	}
	expectedUser := &models.User{ID: 1, Name: "İlhan", Email: "ilhan@example.com", Role: "attendee"}

	mockUserRepo.On("GetByEmail", "ilhan@example.com").Return(nil, errors.New("sql: no rows in result set"))
	mockUserRepo.On("Create", mock.Anything).Return(expectedUser, nil)

	// Act
	user, err := userService.Register(req)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "attendee", user.Role)
	assert.Equal(t, "attendee", req.Role) // default role atanmış olmalı
	mockUserRepo.AssertExpectations(t)
}

// TestUserService_Register_DuplicateEmail, kayıtlı email ile kaydın reddedildiğini test eder.
func TestUserService_Register_DuplicateEmail(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	existing := &models.User{ID: 1, Email: "ilhan@example.com"}
	mockUserRepo.On("GetByEmail", "ilhan@example.com").Return(existing, nil)

	// Act
	user, err := userService.Register(&models.CreateUserRequest{
		Email:    "ilhan@example.com",
		Password: "gizli123",
	})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// TestUserService_Register_AdminBlocked, kayıt endpoint'inden admin hesabı açılamadığını test eder.
func TestUserService_Register_AdminBlocked(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	mockUserRepo.On("GetByEmail", mock.Anything).Return(nil, errors.New("sql: no rows in result set"))

	// Act
	user, err := userService.Register(&models.CreateUserRequest{
		Email:    "kotu@example.com",
		Password: "gizli123",
		Role:     "admin",
	})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// TestUserService_Register_InvalidRole, tanımsız rolün reddedildiğini test eder.
func TestUserService_Register_InvalidRole(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo)

	mockUserRepo.On("GetByEmail", mock.Anything).Return(nil, errors.New("sql: no rows in result set"))

	// Act
	user, err := userService.Register(&models.CreateUserRequest{
		Email:    "dj@example.com",
		Password: "gizli123",
		Role:     "superstar",
	})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, user)
}

// TestUserService_Login_Success, doğru şifre ile girişin token döndürdüğünü test eder.
func TestUserService_Login_Success(t *testing.T) {
	// Arrange
	hashed, err := bcrypt.GenerateFromPassword([]byte("gizli123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := &models.User{
		ID:       1,
		Email:    "ilhan@example.com",
		Password: string(hashed),
		Role:     "organizer",
	}

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "ilhan@example.com").Return(user, nil)

	userService := NewUserService(mockUserRepo)

	// Act
	result, err := userService.Login(&models.LoginRequest{
		Email:    "ilhan@example.com",
		Password: "gizli123",
	})

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "organizer", result.User.Role)
	mockUserRepo.AssertExpectations(t)
}

// TestUserService_Login_WrongPassword, yanlış şifre ile girişin reddedildiğini test eder.
func TestUserService_Login_WrongPassword(t *testing.T) {
	// Arrange
	hashed, err := bcrypt.GenerateFromPassword([]byte("gizli123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := &models.User{ID: 1, Email: "ilhan@example.com", Password: string(hashed)}

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "ilhan@example.com").Return(user, nil)

	userService := NewUserService(mockUserRepo)

	// Act
	result, err := userService.Login(&models.LoginRequest{
		Email:    "ilhan@example.com",
		Password: "yanlis",
	})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
}
