package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// MockBalanceRepository, BalanceRepositoryInterface için sahte (mock) bir yapıdır.
type MockBalanceRepository struct {
	mock.Mock
}

var _ interfaces.BalanceRepositoryInterface = (*MockBalanceRepository)(nil)

func (m *MockBalanceRepository) GetByUserID(userID int) (*models.TokenBalance, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenBalance), args.Error(1)
}

func (m *MockBalanceRepository) CreateBalance(userID int) (*models.TokenBalance, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenBalance), args.Error(1)
}

func (m *MockBalanceRepository) GetHistory(userID int, limit, offset int) ([]*models.TokenHistory, error) {
	args := m.Called(userID, limit, offset)
	return args.Get(0).([]*models.TokenHistory), args.Error(1)
}

// MockNotifier, Notifier için sahte (mock) bir yapıdır.
type MockNotifier struct {
	mock.Mock
}

var _ interfaces.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) BroadcastToEvent(eventID int, msg *models.BroadcastMessage) {
	m.Called(eventID, msg)
}

func (m *MockNotifier) SendToUser(userID int, msg *models.BroadcastMessage) {
	m.Called(userID, msg)
}

func (m *MockNotifier) BroadcastToAll(msg *models.BroadcastMessage) {
	m.Called(msg)
}

// TestBalanceService_GetBalance_Success, bakiye getirme işleminin başarılı senaryosunu test eder.
func TestBalanceService_GetBalance_Success(t *testing.T) {
	// Arrange
	mockBalanceRepo := new(MockBalanceRepository)
	balanceService := NewBalanceService(mockBalanceRepo, nil, nil, 10000)

	userID := 1
	expectedBalance := &models.TokenBalance{
		UserID: userID,
		Amount: 500,
	}

	mockBalanceRepo.On("GetByUserID", userID).Return(expectedBalance, nil)

	// Act
	result, err := balanceService.GetBalance(userID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, expectedBalance, result)
	mockBalanceRepo.AssertExpectations(t)
}

// TestBalanceService_GetBalance_Error, bakiye getirme işleminde hata senaryosunu test eder.
func TestBalanceService_GetBalance_Error(t *testing.T) {
	// Arrange
	mockBalanceRepo := new(MockBalanceRepository)
	balanceService := NewBalanceService(mockBalanceRepo, nil, nil, 10000)

	userID := 1
	mockBalanceRepo.On("GetByUserID", userID).Return(nil, errors.New("veritabanı hatası"))

	// Act
	result, err := balanceService.GetBalance(userID)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	mockBalanceRepo.AssertExpectations(t)
}

// TestBalanceService_Credit_InvalidAmount, sıfır ve negatif yükleme miktarının reddedildiğini test eder.
func TestBalanceService_Credit_InvalidAmount(t *testing.T) {
	// Arrange
	balanceService := NewBalanceService(new(MockBalanceRepository), nil, nil, 10000)

	// Act & Assert
	_, err := balanceService.Credit(1, &models.CreditRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = balanceService.Credit(1, &models.CreditRequest{Amount: -50})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

// TestBalanceService_Credit_OverLimit, tek seferlik yükleme limitini aşan isteğin reddedildiğini test eder.
func TestBalanceService_Credit_OverLimit(t *testing.T) {
	// Arrange
	balanceService := NewBalanceService(new(MockBalanceRepository), nil, nil, 10000)

	// Act
	_, err := balanceService.Credit(1, &models.CreditRequest{Amount: 10001})

	// Assert
	assert.ErrorIs(t, err, ErrCreditLimit)
}

// TestBalanceService_Credit_Success, jeton yüklemenin transaction içinde uygulandığını test eder.
func TestBalanceService_Credit_Success(t *testing.T) {
	// Arrange
	database, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer database.Close()

	mockNotifier := new(MockNotifier)
	mockNotifier.On("SendToUser", 1, mock.Anything).Return()

	balanceService := NewBalanceService(new(MockBalanceRepository), database, mockNotifier, 10000)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("SELECT amount FROM token_balances").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(100))
	dbMock.ExpectExec("INSERT INTO token_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectQuery("UPDATE token_balances").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "amount", "last_updated_at"}).
			AddRow(1, 150, time.Now()))
	dbMock.ExpectCommit()

	// Act
	balance, err := balanceService.Credit(1, &models.CreditRequest{Amount: 50})

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, balance)
	assert.Equal(t, 150, balance.Amount)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	mockNotifier.AssertExpectations(t)
}

// TestBalanceService_Debit_Insufficient, bakiyeyi aşan debitin reddedilip
// hiçbir satırın değişmediğini (rollback) test eder.
func TestBalanceService_Debit_Insufficient(t *testing.T) {
	// Arrange
	database, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer database.Close()

	mockNotifier := new(MockNotifier)
	balanceService := NewBalanceService(new(MockBalanceRepository), database, mockNotifier, 10000)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("SELECT amount FROM token_balances").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(30))
	dbMock.ExpectRollback()

	// Act
	balance, err := balanceService.Debit(1, &models.DebitRequest{Amount: 100})

	// Assert
	assert.ErrorIs(t, err, ErrInsufficientTokens)
	assert.Nil(t, balance)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	mockNotifier.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything)
}

// TestBalanceService_Debit_NoBalanceRow, hiç bakiyesi olmayan kullanıcının debitinin reddedildiğini test eder.
func TestBalanceService_Debit_NoBalanceRow(t *testing.T) {
	// Arrange
	database, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer database.Close()

	balanceService := NewBalanceService(new(MockBalanceRepository), database, nil, 10000)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("SELECT amount FROM token_balances").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"amount"})) // boş sonuç
	dbMock.ExpectRollback()

	// Act
	balance, err := balanceService.Debit(1, &models.DebitRequest{Amount: 10})

	// Assert
	assert.ErrorIs(t, err, ErrInsufficientTokens)
	assert.Nil(t, balance)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestBalanceService_GetHistory_PaginationClamp, geçersiz pagination değerlerinin düzeltildiğini test eder.
func TestBalanceService_GetHistory_PaginationClamp(t *testing.T) {
	// Arrange
	mockBalanceRepo := new(MockBalanceRepository)
	balanceService := NewBalanceService(mockBalanceRepo, nil, nil, 10000)

	history := []*models.TokenHistory{}
	mockBalanceRepo.On("GetHistory", 1, 10, 0).Return(history, nil)

	// Act: limit ve offset geçersiz, default'lara dönmeli
	result, err := balanceService.GetHistory(1, -5, -3)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, result)
	mockBalanceRepo.AssertExpectations(t)
}
