package migration

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Dosya adı deseni: 000001_init_schema.up.sql / 000001_init_schema.down.sql
var filePattern = regexp.MustCompile(`^(\d{6})_([a-z0-9_]+)\.(up|down)\.sql$`)

// Runner migration dosyalarını takip tablosu ile eşleyip uygular
type Runner struct {
	db     *sql.DB
	config *Config
}

// NewRunner yeni runner oluşturur
func NewRunner(db *sql.DB, config *Config) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Runner{db: db, config: config}
}

// Initialize takip tablosunu oluşturur (idempotent)
func (r *Runner) Initialize() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version       BIGINT PRIMARY KEY,
			name          VARCHAR(255) NOT NULL,
			up_checksum   VARCHAR(64)  NOT NULL,
			down_checksum VARCHAR(64),
			applied_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			duration_ms   INTEGER      NOT NULL DEFAULT 0
		)
	`, r.config.TableName)

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("takip tablosu oluşturulamadı: %w", err)
	}

	if r.config.Verbose {
		log.Info().
			Str("table", r.config.TableName).
			Str("path", r.config.Path).
			Msg("Migration takip tablosu hazır")
	}

	return nil
}

// LoadFromDisk migration klasöründeki up/down dosya çiftlerini okur,
// version'a göre sıralı döner
func (r *Runner) LoadFromDisk() ([]Migration, error) {
	upFiles, err := filepath.Glob(filepath.Join(r.config.Path, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("migration klasörü okunamadı: %w", err)
	}

	var migrations []Migration
	for _, upFile := range upFiles {
		m, err := r.readPair(upFile)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// readPair tek bir up dosyasını ve varsa down eşini okur
func (r *Runner) readPair(upPath string) (Migration, error) {
	version, name, err := ParseFilename(filepath.Base(upPath))
	if err != nil {
		return Migration{}, err
	}

	upContent, err := os.ReadFile(upPath)
	if err != nil {
		return Migration{}, fmt.Errorf("UP dosyası okunamadı %s: %w", upPath, err)
	}

	m := Migration{
		Version:    version,
		Name:       name,
		UpSQL:      string(upContent),
		UpChecksum: Checksum(upContent),
	}

	downPath := strings.TrimSuffix(upPath, ".up.sql") + ".down.sql"
	if downContent, err := os.ReadFile(downPath); err == nil {
		m.DownSQL = string(downContent)
		m.DownChecksum = Checksum(downContent)
		m.HasDown = true
	} else if r.config.RequireDownFiles {
		return Migration{}, fmt.Errorf("DOWN dosyası zorunlu ama yok: %s", downPath)
	}

	return m, nil
}

// ParseFilename "000001_init_schema.up.sql" biçimindeki dosya adından
// version ve okunur adı çıkarır
func ParseFilename(filename string) (int64, string, error) {
	matches := filePattern.FindStringSubmatch(filename)
	if matches == nil {
		return 0, "", fmt.Errorf("geçersiz migration dosya adı: %s", filename)
	}

	version, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("geçersiz version: %s", matches[1])
	}

	name := strings.ReplaceAll(matches[2], "_", " ")
	return version, name, nil
}

// Checksum içeriğin SHA-256 hex özeti
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%x", sum)
}

// appliedRecord takip tablosundaki tek satır
type appliedRecord struct {
	Version    int64
	UpChecksum string
	AppliedAt  time.Time
}

// loadApplied takip tablosunu okur; tablo henüz yoksa boş map döner
func (r *Runner) loadApplied() (map[int64]appliedRecord, error) {
	query := fmt.Sprintf(`
		SELECT version, up_checksum, applied_at FROM %s ORDER BY version
	`, r.config.TableName)

	rows, err := r.db.Query(query)
	if err != nil {
		if isMissingTable(err) {
			return map[int64]appliedRecord{}, nil
		}
		return nil, fmt.Errorf("takip tablosu okunamadı: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]appliedRecord)
	for rows.Next() {
		var rec appliedRecord
		if err := rows.Scan(&rec.Version, &rec.UpChecksum, &rec.AppliedAt); err != nil {
			return nil, fmt.Errorf("takip satırı okunamadı: %w", err)
		}
		applied[rec.Version] = rec
	}

	return applied, rows.Err()
}

// Load dosyaları okur ve takip tablosu ile eşleştirir.
// ValidateChecksums açıksa uygulanmış bir dosyanın sonradan
// değiştirilmesi hata sayılır.
func (r *Runner) Load() ([]Migration, error) {
	migrations, err := r.LoadFromDisk()
	if err != nil {
		return nil, err
	}

	applied, err := r.loadApplied()
	if err != nil {
		return nil, err
	}

	for i := range migrations {
		rec, ok := applied[migrations[i].Version]
		if !ok {
			continue
		}

		migrations[i].Applied = true
		appliedAt := rec.AppliedAt
		migrations[i].AppliedAt = &appliedAt

		if r.config.ValidateChecksums && migrations[i].UpChecksum != rec.UpChecksum {
			return nil, fmt.Errorf("migration %06d uygulandıktan sonra değiştirilmiş (checksum uyuşmuyor)", migrations[i].Version)
		}
	}

	return migrations, nil
}

// GetStatus genel durumu döner
func (r *Runner) GetStatus() (*Status, error) {
	migrations, err := r.Load()
	if err != nil {
		return nil, err
	}

	status := &Status{Migrations: migrations}
	for _, m := range migrations {
		if m.Applied {
			status.AppliedCount++
			if m.Version > status.CurrentVersion {
				status.CurrentVersion = m.Version
			}
		} else {
			status.PendingCount++
		}
	}

	return status, nil
}

// isMissingTable Postgres "tablo yok" hatasını yakalar
func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "does not exist")
}
