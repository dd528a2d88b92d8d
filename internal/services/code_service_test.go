package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// MockCodeRepository, CodeRepositoryInterface için sahte (mock) bir yapıdır.
type MockCodeRepository struct {
	mock.Mock
}

var _ interfaces.CodeRepositoryInterface = (*MockCodeRepository)(nil)

func (m *MockCodeRepository) CreateBatch(codes []*models.EventCode) error {
	args := m.Called(codes)
	return args.Error(0)
}

func (m *MockCodeRepository) GetByEventAndCode(eventID int, code string) (*models.EventCode, error) {
	args := m.Called(eventID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventCode), args.Error(1)
}

func (m *MockCodeRepository) ExistsInEvent(eventID int, code string) (bool, error) {
	args := m.Called(eventID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepository) Consume(codeID string) (bool, error) {
	args := m.Called(codeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepository) Deactivate(codeID string) error {
	args := m.Called(codeID)
	return args.Error(0)
}

func (m *MockCodeRepository) ListByEvent(eventID int) ([]*models.EventCode, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventCode), args.Error(1)
}

// MockAuditRepository, AuditRepositoryInterface için sahte (mock) bir yapıdır.
type MockAuditRepository struct {
	mock.Mock
}

var _ interfaces.AuditRepositoryInterface = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) Create(entry *models.AuditLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

// TestCodeService_CreateCodes_Success, üretilen kodların format ve benzersizlik
// kurallarına uyduğunu test eder: 6 karakter, alfabe dışı karakter yok, batch içinde tekil.
func TestCodeService_CreateCodes_Success(t *testing.T) {
	// Arrange
	mockCodeRepo := new(MockCodeRepository)
	mockCodeRepo.On("ExistsInEvent", 3, mock.Anything).Return(false, nil)
	mockCodeRepo.On("CreateBatch", mock.Anything).Return(nil)

	mockAuditRepo := new(MockAuditRepository)
	mockAuditRepo.On("Create", mock.Anything).Return(nil)

	codeService := NewCodeService(mockCodeRepo, mockAuditRepo)

	// Act
	codes, err := codeService.CreateCodes(3, 20, 1, nil, 42)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, codes, 20)

	seen := make(map[string]struct{})
	for _, c := range codes {
		assert.Len(t, c.Code, 6)
		for _, ch := range c.Code {
			assert.True(t, strings.ContainsRune(codeAlphabet, ch), "alfabe dışı karakter: %c", ch)
		}
		_, dup := seen[c.Code]
		assert.False(t, dup, "batch içinde tekrar eden kod: %s", c.Code)
		seen[c.Code] = struct{}{}

		assert.True(t, c.IsActive)
		assert.Equal(t, 3, c.EventID)
		assert.Equal(t, 1, c.MaxUses)
		assert.Equal(t, 42, c.CreatedBy)
		assert.Contains(t, c.EntryURL, "/events/3/songs?code="+c.Code)
	}

	mockCodeRepo.AssertExpectations(t)
	mockAuditRepo.AssertExpectations(t)
}

// TestCodeService_CreateCodes_InvalidQuantity, geçersiz adetlerin reddedildiğini test eder.
func TestCodeService_CreateCodes_InvalidQuantity(t *testing.T) {
	// Arrange
	codeService := NewCodeService(new(MockCodeRepository), nil)

	// Act & Assert
	_, err := codeService.CreateCodes(3, 0, 0, nil, 1)
	assert.Error(t, err)

	_, err = codeService.CreateCodes(3, 501, 0, nil, 1)
	assert.Error(t, err)

	_, err = codeService.CreateCodes(3, 5, -1, nil, 1)
	assert.Error(t, err)
}

// TestCodeService_ValidateCode_Success, geçerli kodun tüketildiğini test eder.
func TestCodeService_ValidateCode_Success(t *testing.T) {
	// Arrange
	record := &models.EventCode{
		ID:          "code-uuid",
		EventID:     3,
		Code:        "ABC234",
		IsActive:    true,
		MaxUses:     5,
		CurrentUses: 2,
	}

	mockCodeRepo := new(MockCodeRepository)
	mockCodeRepo.On("GetByEventAndCode", 3, "ABC234").Return(record, nil)
	mockCodeRepo.On("Consume", "code-uuid").Return(true, nil)

	codeService := NewCodeService(mockCodeRepo, nil)

	// Act
	valid, err := codeService.ValidateCode(3, "ABC234")

	// Assert
	assert.NoError(t, err)
	assert.True(t, valid)
	mockCodeRepo.AssertExpectations(t)
}

// TestCodeService_ValidateCode_NotFound, olmayan kodun geçersiz sayıldığını test eder.
func TestCodeService_ValidateCode_NotFound(t *testing.T) {
	// Arrange
	mockCodeRepo := new(MockCodeRepository)
	mockCodeRepo.On("GetByEventAndCode", 3, "YOKKOD").Return(nil, nil)

	codeService := NewCodeService(mockCodeRepo, nil)

	// Act
	valid, err := codeService.ValidateCode(3, "YOKKOD")

	// Assert
	assert.NoError(t, err)
	assert.False(t, valid)
	mockCodeRepo.AssertNotCalled(t, "Consume", mock.Anything)
}

// TestCodeService_ValidateCode_Inactive, pasif kodun reddedildiğini test eder.
func TestCodeService_ValidateCode_Inactive(t *testing.T) {
	// Arrange
	record := &models.EventCode{ID: "x", EventID: 3, Code: "ABC234", IsActive: false}

	mockCodeRepo := new(MockCodeRepository)
	mockCodeRepo.On("GetByEventAndCode", 3, "ABC234").Return(record, nil)

	codeService := NewCodeService(mockCodeRepo, nil)

	// Act
	valid, err := codeService.ValidateCode(3, "ABC234")

	// Assert
	assert.NoError(t, err)
	assert.False(t, valid)
	mockCodeRepo.AssertNotCalled(t, "Consume", mock.Anything)
}

// TestCodeService_ValidateCode_AtCapacity, kapasitesi dolan kodun reddedildiğini
// ve kullanım sayısının değişmediğini test eder.
func TestCodeService_ValidateCode_AtCapacity(t *testing.T) {
	// Arrange
	record := &models.EventCode{
		ID:          "x",
		EventID:     3,
		Code:        "ABC234",
		IsActive:    true,
		MaxUses:     3,
		CurrentUses: 3,
	}

	mockCodeRepo := new(MockCodeRepository)
	mockCodeRepo.On("GetByEventAndCode", 3, "ABC234").Return(record, nil)

	codeService := NewCodeService(mockCodeRepo, nil)

	// Act
	valid, err := codeService.ValidateCode(3, "ABC234")

	// Assert
	assert.NoError(t, err)
	assert.False(t, valid)
	mockCodeRepo.AssertNotCalled(t, "Consume", mock.Anything)
}

// TestCodeService_ValidateCode_Expired, süresi dolmuş kodun reddedildiğini test eder.
func TestCodeService_ValidateCode_Expired(t *testing.T) {
	// Arrange
	past := time.Now().Add(-1 * time.Hour)
	record := &models.EventCode{
		ID:        "x",
		EventID:   3,
		Code:      "ABC234",
		IsActive:  true,
		ExpiresAt: &past,
	}

	mockCodeRepo := new(MockCodeRepository)
	mockCodeRepo.On("GetByEventAndCode", 3, "ABC234").Return(record, nil)

	codeService := NewCodeService(mockCodeRepo, nil)

	// Act
	valid, err := codeService.ValidateCode(3, "ABC234")

	// Assert
	assert.NoError(t, err)
	assert.False(t, valid)
	mockCodeRepo.AssertNotCalled(t, "Consume", mock.Anything)
}

// TestCodeService_ValidateCode_ConcurrentGuard, ön kontrol geçse bile atomik
// tüketim guard'ı false dönerse kodun geçersiz sayıldığını test eder.
func TestCodeService_ValidateCode_ConcurrentGuard(t *testing.T) {
	// Arrange: eşzamanlı istek kapasiteyi bizden önce doldurmuş
	record := &models.EventCode{
		ID:          "x",
		EventID:     3,
		Code:        "ABC234",
		IsActive:    true,
		MaxUses:     1,
		CurrentUses: 0,
	}

	mockCodeRepo := new(MockCodeRepository)
	mockCodeRepo.On("GetByEventAndCode", 3, "ABC234").Return(record, nil)
	mockCodeRepo.On("Consume", "x").Return(false, nil)

	codeService := NewCodeService(mockCodeRepo, nil)

	// Act
	valid, err := codeService.ValidateCode(3, "ABC234")

	// Assert
	assert.NoError(t, err)
	assert.False(t, valid)
	mockCodeRepo.AssertExpectations(t)
}

// TestCodeService_DeactivateCode_Idempotent, deaktivasyonun zaten pasif kod
// için de başarı döndüğünü test eder.
func TestCodeService_DeactivateCode_Idempotent(t *testing.T) {
	// Arrange
	mockCodeRepo := new(MockCodeRepository)
	mockCodeRepo.On("Deactivate", "code-uuid").Return(nil).Twice()

	mockAuditRepo := new(MockAuditRepository)
	mockAuditRepo.On("Create", mock.Anything).Return(nil).Twice()

	codeService := NewCodeService(mockCodeRepo, mockAuditRepo)

	// Act: aynı kod iki kez deaktive edilir
	ok1, err1 := codeService.DeactivateCode("code-uuid", 42)
	ok2, err2 := codeService.DeactivateCode("code-uuid", 42)

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.True(t, ok1)
	assert.True(t, ok2)
	mockCodeRepo.AssertExpectations(t)
}
