package migration

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// RunUp bekleyen migration'ları sırayla uygular.
// targetVersion 0 ise hepsi çalışır; ilk hatada durur.
func (r *Runner) RunUp(targetVersion int64) ([]Result, error) {
	if err := r.Initialize(); err != nil {
		return nil, err
	}

	migrations, err := r.Load()
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, m := range migrations {
		if m.Applied {
			continue
		}
		if targetVersion > 0 && m.Version > targetVersion {
			break
		}

		result := r.apply(m, Up)
		results = append(results, result)

		if !result.Success {
			log.Error().
				Int64("version", m.Version).
				Str("error", result.Error).
				Msg("Migration başarısız, durduruluyor")
			break
		}

		if r.config.Verbose {
			log.Info().
				Int64("version", m.Version).
				Str("name", m.Name).
				Dur("duration", result.Duration).
				Msg("Migration uygulandı")
		}
	}

	return results, nil
}

// RunDown uygulanmış migration'ları yeniden eskiye doğru,
// targetVersion'a (hariç) kadar geri alır
func (r *Runner) RunDown(targetVersion int64) ([]Result, error) {
	migrations, err := r.Load()
	if err != nil {
		return nil, err
	}

	var results []Result
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if !m.Applied || m.Version <= targetVersion {
			continue
		}

		if !m.HasDown {
			results = append(results, Result{
				Version:   m.Version,
				Name:      m.Name,
				Direction: Down,
				Error:     "DOWN dosyası yok, geri alınamaz",
			})
			break
		}

		result := r.apply(m, Down)
		results = append(results, result)

		if !result.Success {
			break
		}

		if r.config.Verbose {
			log.Info().
				Int64("version", m.Version).
				Str("name", m.Name).
				Msg("Migration geri alındı")
		}
	}

	return results, nil
}

// apply tek bir migration'ı tek transaction içinde çalıştırır:
// SQL ve takip tablosu güncellemesi birlikte commit olur
func (r *Runner) apply(m Migration, direction Direction) Result {
	start := time.Now()
	result := Result{
		Version:   m.Version,
		Name:      m.Name,
		Direction: direction,
	}

	sqlText := m.UpSQL
	if direction == Down {
		sqlText = m.DownSQL
	}

	if r.config.DryRun {
		result.Success = true
		result.Duration = time.Since(start)
		log.Info().
			Int64("version", m.Version).
			Str("direction", string(direction)).
			Int("statements", len(SplitStatements(sqlText))).
			Msg("DRY RUN: migration uygulanmadı")
		return result
	}

	tx, err := r.db.Begin()
	if err != nil {
		result.Error = fmt.Sprintf("transaction başlatılamadı: %v", err)
		return result
	}
	defer tx.Rollback()

	for i, stmt := range SplitStatements(sqlText) {
		if _, err := tx.Exec(stmt); err != nil {
			result.Error = fmt.Sprintf("statement %d çalıştırılamadı: %v", i+1, err)
			return result
		}
	}

	if direction == Up {
		err = r.record(tx, m, time.Since(start))
	} else {
		err = r.unrecord(tx, m.Version)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if err := tx.Commit(); err != nil {
		result.Error = fmt.Sprintf("commit hatası: %v", err)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// record migration'ı takip tablosuna transaction içinde yazar
func (r *Runner) record(tx *sql.Tx, m Migration, duration time.Duration) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (version, name, up_checksum, down_checksum, duration_ms)
		VALUES ($1, $2, $3, $4, $5)
	`, r.config.TableName)

	downChecksum := sql.NullString{String: m.DownChecksum, Valid: m.HasDown}

	if _, err := tx.Exec(query, m.Version, m.Name, m.UpChecksum, downChecksum, duration.Milliseconds()); err != nil {
		return fmt.Errorf("takip kaydı eklenemedi: %w", err)
	}
	return nil
}

// unrecord migration kaydını takip tablosundan siler
func (r *Runner) unrecord(tx *sql.Tx, version int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE version = $1`, r.config.TableName)

	res, err := tx.Exec(query, version)
	if err != nil {
		return fmt.Errorf("takip kaydı silinemedi: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("takip kaydı bulunamadı: version %d", version)
	}
	return nil
}

// SplitStatements SQL'i noktalı virgülden statement'lara böler.
// Tek tırnaklı string'lerin ve "--" satır yorumlarının içindeki
// noktalı virgüller ayraç sayılmaz.
func SplitStatements(sqlText string) []string {
	var out []string
	var buf strings.Builder

	inString := false
	inComment := false

	for i := 0; i < len(sqlText); i++ {
		c := sqlText[i]

		switch {
		case inComment:
			buf.WriteByte(c)
			if c == '\n' {
				inComment = false
			}
		case inString:
			buf.WriteByte(c)
			if c == '\'' {
				// '' escape'i tek string'in devamıdır
				if i+1 < len(sqlText) && sqlText[i+1] == '\'' {
					buf.WriteByte('\'')
					i++
				} else {
					inString = false
				}
			}
		case c == '-' && i+1 < len(sqlText) && sqlText[i+1] == '-':
			buf.WriteString("--")
			i++
			inComment = true
		case c == '\'':
			buf.WriteByte(c)
			inString = true
		case c == ';':
			if stmt := strings.TrimSpace(buf.String()); stmt != "" {
				out = append(out, stmt)
			}
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}

	if stmt := strings.TrimSpace(buf.String()); stmt != "" {
		out = append(out, stmt)
	}

	return out
}
