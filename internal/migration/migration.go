package migration

import "time"

// Direction migration yönü
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migration diskteki tek bir migration dosya çiftini temsil eder
type Migration struct {
	Version      int64      `json:"version"`                // dosya adındaki sıra numarası
	Name         string     `json:"name"`                   // "init schema" gibi
	UpSQL        string     `json:"-"`                      // UP dosya içeriği
	DownSQL      string     `json:"-"`                      // DOWN dosya içeriği (olmayabilir)
	HasDown      bool       `json:"hasDown"`                // DOWN dosyası var mı?
	UpChecksum   string     `json:"upChecksum"`             // UP içeriğinin SHA-256'sı
	DownChecksum string     `json:"downChecksum,omitempty"` // DOWN içeriğinin SHA-256'sı
	Applied      bool       `json:"applied"`
	AppliedAt    *time.Time `json:"appliedAt,omitempty"`
}

// Result tek bir migration çalıştırmasının sonucu
type Result struct {
	Version   int64         `json:"version"`
	Name      string        `json:"name"`
	Direction Direction     `json:"direction"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Status migration sisteminin genel durumu
type Status struct {
	CurrentVersion int64       `json:"currentVersion"`
	Migrations     []Migration `json:"migrations"`
	AppliedCount   int         `json:"appliedCount"`
	PendingCount   int         `json:"pendingCount"`
}

// Config runner ayarları
type Config struct {
	Path              string // migration dosyalarının klasörü
	TableName         string // takip tablosu
	ValidateChecksums bool   // uygulanmış dosya değişmişse hata ver
	RequireDownFiles  bool   // DOWN dosyası zorunlu mu?
	DryRun            bool   // SQL'i çalıştırmadan raporla
	Verbose           bool
}

// DefaultConfig uygulama içi kullanım için varsayılan ayarlar
func DefaultConfig() *Config {
	return &Config{
		Path:              "./migrations",
		TableName:         "schema_migrations",
		ValidateChecksums: true,
		RequireDownFiles:  false,
		Verbose:           false,
	}
}

// CLIConfig cmd/migrate için ayarlar: detaylı çıktı ve rollback
// yapılabilsin diye DOWN dosyası zorunlu
func CLIConfig() *Config {
	c := DefaultConfig()
	c.Verbose = true
	c.RequireDownFiles = true
	return c
}
