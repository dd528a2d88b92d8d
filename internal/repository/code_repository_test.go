package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// TestCodeRepository_Consume_Success, guard koşullarını sağlayan kodun tüketildiğini test eder.
func TestCodeRepository_Consume_Success(t *testing.T) {
	// Arrange
	database, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer database.Close()

	repo := NewCodeRepository(database)

	dbMock.ExpectExec("UPDATE event_codes").
		WithArgs("code-uuid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act
	consumed, err := repo.Consume("code-uuid")

	// Assert
	assert.NoError(t, err)
	assert.True(t, consumed)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestCodeRepository_Consume_GuardRejects, guard'a takılan (pasif, dolu veya
// süresi geçmiş) kodun tüketilmediğini test eder: etkilenen satır 0 ise false döner.
func TestCodeRepository_Consume_GuardRejects(t *testing.T) {
	// Arrange
	database, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer database.Close()

	repo := NewCodeRepository(database)

	dbMock.ExpectExec("UPDATE event_codes").
		WithArgs("code-uuid").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Act
	consumed, err := repo.Consume("code-uuid")

	// Assert
	assert.NoError(t, err)
	assert.False(t, consumed)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestCodeRepository_GetByEventAndCode_NotFound, olmayan kod için (nil, nil) döndüğünü test eder.
func TestCodeRepository_GetByEventAndCode_NotFound(t *testing.T) {
	// Arrange
	database, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer database.Close()

	repo := NewCodeRepository(database)

	dbMock.ExpectQuery("SELECT id, event_id, code").
		WithArgs(3, "YOKKOD").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "code", "is_active", "max_uses", "current_uses", "expires_at", "created_by", "created_at",
		}))

	// Act
	code, err := repo.GetByEventAndCode(3, "YOKKOD")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, code)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestCodeRepository_Deactivate_Idempotent, hiç satır etkilenmese de hata dönmediğini test eder.
func TestCodeRepository_Deactivate_Idempotent(t *testing.T) {
	// Arrange
	database, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer database.Close()

	repo := NewCodeRepository(database)

	dbMock.ExpectExec("UPDATE event_codes").
		WithArgs("code-uuid").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Act
	err = repo.Deactivate("code-uuid")

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
