package config

import (
	"net"
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS   = ""         // e.g. "example.com,example2.com"
	MYSQL_DSN     = ""         // MySQL will be used if this is set
	SQLITE_FILE   = "posts.db" // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS  = "0.0.0.0:8080"
	API_BASE_URL  = ""                                  // Where the web view reaches the posts API. Derived from BIND_ADDRESS if empty
	SESSION_KEY   = "change me, this is not a real key" // Signs the web view session cookie
	CORS_ORIGINS  = "*"                                 // Comma separated
	DEBUG_MODE    = true
	METRICS       = true // Expose /metrics
	DB_MAX_CONNS  = 10
	DB_IDLE_CONNS = 2
)

func init() {
	Load()
}

// Load (re)reads all settings from the environment. Variables that are not set keep their current value.
func Load() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("API_BASE_URL", &API_BASE_URL)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("CORS_ORIGINS", &CORS_ORIGINS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvBool("METRICS", &METRICS)
	readEnvInt("DB_MAX_CONNS", &DB_MAX_CONNS)
	readEnvInt("DB_IDLE_CONNS", &DB_IDLE_CONNS)
}

// APIBaseURL returns API_BASE_URL, the first TLS domain, or the address we bind to.
// Wildcard bind hosts are reached over loopback
func APIBaseURL() string {
	if API_BASE_URL != "" {
		return strings.TrimRight(API_BASE_URL, "/")
	}
	if TLS_DOMAINS != "" {
		return "https://" + strings.TrimSpace(strings.Split(TLS_DOMAINS, ",")[0])
	}
	host, port, err := net.SplitHostPort(BIND_ADDRESS)
	if err != nil || port == "" {
		host, port = "", "8080"
	}
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func CORSOrigins() []string {
	result := []string{}
	for _, o := range strings.Split(CORS_ORIGINS, ",") {
		if o = strings.TrimSpace(o); o != "" {
			result = append(result, o)
		}
	}
	return result
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
