package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds the connection parameters of the catalog database.
// URL takes precedence over the individual fields when set.
type DatabaseConfig struct {
	Driver   string `koanf:"driver" validate:"oneof=postgres sqlite"`
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port" validate:"min=0,max=65535"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	Path     string `koanf:"path"`
}

// DSN returns the connection string for the configured driver. For
// postgres with sslmode=require the transport is encrypted but the server
// certificate is not verified.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// validateDatabase requires either a URL or the full set of postgres
// credentials, or a file path for sqlite.
func validateDatabase(sl validator.StructLevel) {
	d := sl.Current().Interface().(DatabaseConfig)
	if d.Driver == DriverSQLite {
		if d.Path == "" {
			sl.ReportError(d.Path, "Path", "path", "required", "")
		}
		return
	}
	if d.URL != "" {
		return
	}
	for name, v := range map[string]string{"Host": d.Host, "Name": d.Name, "User": d.User, "Password": d.Password} {
		if v == "" {
			sl.ReportError(v, name, name, "required_without", "URL")
		}
	}
}

// String hides the password for logging.
func (d DatabaseConfig) String() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("sqlite:%s", d.Path)
	}
	if d.URL != "" {
		if u, err := url.Parse(d.URL); err == nil {
			return u.Redacted()
		}
		return "postgres:<unparsable url>"
	}
	return fmt.Sprintf("postgres://%s@%s/%s?sslmode=%s", d.User, net.JoinHostPort(d.Host, strconv.Itoa(d.Port)), d.Name, d.SSLMode)
}
