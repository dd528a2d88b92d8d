package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/onerilhan/go-songbid-api/internal/config"
	"github.com/onerilhan/go-songbid-api/internal/db"
	"github.com/onerilhan/go-songbid-api/internal/migration"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Uyarı: .env bulunamadı, ortam değişkenleri kullanılıyor")
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.LoadConfig()

	database, err := db.Connect(cfg.GetDSN())
	if err != nil {
		fmt.Printf("Veritabanı bağlantısı başarısız: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	runner := migration.NewRunner(database, migration.CLIConfig())

	switch os.Args[1] {
	case "status":
		runStatus(runner)
	case "up":
		runUp(runner, os.Args[2:])
	case "down":
		runDown(runner, os.Args[2:])
	case "create":
		runCreate(os.Args[2:])
	default:
		fmt.Printf("Bilinmeyen komut: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`
SongBid migration aracı

KULLANIM:
    go run cmd/migrate/main.go <komut> [argümanlar]

KOMUTLAR:
    status              Migration durumunu göster
    up [version]        Bekleyen migration'ları uygula
    down <version>      Verilen version'a kadar geri al
    create <isim>       Yeni migration dosya çifti oluştur

ÖRNEKLER:
    go run cmd/migrate/main.go status
    go run cmd/migrate/main.go up
    go run cmd/migrate/main.go down 000001
    go run cmd/migrate/main.go create add_song_genre
`)
}

func runStatus(runner *migration.Runner) {
	status, err := runner.GetStatus()
	if err != nil {
		fmt.Printf("Durum alınamadı: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Şu anki version: %06d\n", status.CurrentVersion)
	fmt.Printf("Uygulanan: %d, bekleyen: %d\n\n", status.AppliedCount, status.PendingCount)

	for _, m := range status.Migrations {
		state := "PENDING"
		when := ""
		if m.Applied {
			state = "APPLIED"
			if m.AppliedAt != nil {
				when = m.AppliedAt.Format("2006-01-02 15:04")
			}
		}
		fmt.Printf("  %06d  %-8s %-30s %s\n", m.Version, state, m.Name, when)
	}
}

func runUp(runner *migration.Runner, args []string) {
	target := int64(0)
	if len(args) > 0 {
		var err error
		target, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Geçersiz version: %s\n", args[0])
			os.Exit(1)
		}
	}

	results, err := runner.RunUp(target)
	if err != nil {
		fmt.Printf("Migration başarısız: %v\n", err)
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Println("Bekleyen migration yok")
		return
	}

	printResults(results)
}

func runDown(runner *migration.Runner, args []string) {
	if len(args) == 0 {
		fmt.Println("Hedef version gerekli: down <version>")
		os.Exit(1)
	}

	target, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Geçersiz version: %s\n", args[0])
		os.Exit(1)
	}

	fmt.Printf("UYARI: %06d sonrası migration'lar geri alınacak. Devam? (y/N): ", target)
	var answer string
	fmt.Scanln(&answer)
	if strings.ToLower(answer) != "y" {
		fmt.Println("İptal edildi")
		return
	}

	results, err := runner.RunDown(target)
	if err != nil {
		fmt.Printf("Rollback başarısız: %v\n", err)
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Println("Geri alınacak migration yok")
		return
	}

	printResults(results)
}

func printResults(results []migration.Result) {
	failed := false
	for _, r := range results {
		state := "OK"
		if !r.Success {
			state = "FAIL"
			failed = true
		}
		fmt.Printf("  %-4s %06d %-30s %v\n", state, r.Version, r.Name, r.Duration)
		if r.Error != "" {
			fmt.Printf("       hata: %s\n", r.Error)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// runCreate yeni bir up/down dosya çifti oluşturur.
// Version, mevcut en yüksek dosya numarasının bir fazlasıdır.
func runCreate(args []string) {
	if len(args) == 0 {
		fmt.Println("Migration ismi gerekli: create <isim>")
		os.Exit(1)
	}

	name := sanitizeName(strings.Join(args, "_"))
	version := nextVersion("./migrations")

	header := fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n", strings.ReplaceAll(name, "_", " "), time.Now().Format("2006-01-02"))

	upPath := fmt.Sprintf("./migrations/%06d_%s.up.sql", version, name)
	downPath := fmt.Sprintf("./migrations/%06d_%s.down.sql", version, name)

	if err := os.WriteFile(upPath, []byte(header), 0644); err != nil {
		fmt.Printf("UP dosyası oluşturulamadı: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(downPath, []byte(header), 0644); err != nil {
		fmt.Printf("DOWN dosyası oluşturulamadı: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Oluşturuldu:\n  %s\n  %s\n", upPath, downPath)
}

// nextVersion klasördeki en yüksek version'ın bir fazlasını döner
func nextVersion(dir string) int64 {
	var max int64
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}
	for _, e := range entries {
		if v, _, err := migration.ParseFilename(e.Name()); err == nil && v > max {
			max = v
		}
	}
	return max + 1
}

// sanitizeName ismi dosya adına uygun hale getirir
func sanitizeName(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	clean := b.String()
	for strings.Contains(clean, "__") {
		clean = strings.ReplaceAll(clean, "__", "_")
	}
	return strings.Trim(clean, "_")
}
