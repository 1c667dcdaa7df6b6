package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, ServiceProperty, cfg.Service)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.UserService.Timeout)
	assert.Equal(t, StoreMemory, cfg.RateLimitStore)
	assert.False(t, cfg.EnforceHTTPS)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "booking.yaml")
	Expect(os.WriteFile(path, []byte("service: user\nserver:\n  port: \"9000\"\nuser_service:\n  timeout: 2s\n"), 0o600)).To(Succeed())

	t.Setenv("BOOKING_SERVER_PORT", "9100")
	t.Setenv("BOOKING_DATABASE_DRIVER", "postgres")

	cfg, err := Load(path)

	Expect(err).ToNot(HaveOccurred())
	Expect(cfg.Service).To(Equal(ServiceUser))
	Expect(cfg.Port).To(Equal("9100"))
	Expect(cfg.Database.Driver).To(Equal(DriverPostgres))
	Expect(cfg.UserService.Timeout).To(Equal(2 * time.Second))
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("BOOKING_DATABASE_DRIVER", "mysql")

	_, err := Load("")
	Expect(err).To(MatchError(ContainSubstring("mysql")))
}

func TestLoad_SQLLogLevel(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := Load("")
	Expect(err).ToNot(HaveOccurred())
	Expect(cfg.SQLLogLevel).To(Equal("debug"))

	t.Setenv("BOOKING_ENVIRONMENT", "production")

	cfg, err = Load("")
	Expect(err).ToNot(HaveOccurred())
	Expect(cfg.SQLLogLevel).To(Equal("error"))

	t.Setenv("BOOKING_LOGGING_SQL_LEVEL", "info")

	cfg, err = Load("")
	Expect(err).ToNot(HaveOccurred())
	Expect(cfg.SQLLogLevel).To(Equal("info"))

	t.Setenv("BOOKING_LOGGING_SQL_LEVEL", "loud")

	_, err = Load("")
	Expect(err).To(MatchError(ContainSubstring("loud")))
}
