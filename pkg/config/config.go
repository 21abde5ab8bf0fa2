package config

import (
	"fmt"
	"strings"
	"time"

	"repairshop/pkg/client"
	"repairshop/pkg/logger"
	"repairshop/pkg/schedule"
)

// Config carries every runtime setting of the service. All values come
// from the environment with sensible defaults, so the binary runs with
// no flags in development.
type Config struct {
	ServiceName string
	Environment string
	Port        string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration

	SlotDuration       time.Duration
	WorkingHours       map[time.Weekday]string
	Holidays           []string
	CalendarWindowDays int
	LockTTL            time.Duration

	CalendarAuthUsername string
	CalendarAuthPassword string

	CORSAllowedOrigins []string

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	RateLimitPerMinute int

	LogLevel  string
	LogFormat string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the configuration from the environment, builds the logger
// and aborts on invalid settings.
func Load(serviceName string) *Config {
	cfg := &Config{
		ServiceName: serviceName,
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Port:        getEnv("PORT", DefaultPort),

		ReadTimeout:     getEnvDuration("READ_TIMEOUT", DefaultReadTimeout),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", DefaultWriteTimeout),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
		MaxBodyBytes:    getEnvInt64("MAX_BODY_BYTES", DefaultMaxBodyBytes),

		MongoURI:            getEnv("MONGO_URI", DefaultMongoURI),
		MongoDatabase:       getEnv("MONGO_DATABASE", DefaultMongoDatabase),
		MongoConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", DefaultMongoConnectTimeout),

		SlotDuration: getEnvDuration("SLOT_DURATION", DefaultSlotDuration),
		WorkingHours: map[time.Weekday]string{
			time.Monday:    getEnv("WORKING_HOURS_MONDAY", DefaultWeekdayHours),
			time.Tuesday:   getEnv("WORKING_HOURS_TUESDAY", DefaultWeekdayHours),
			time.Wednesday: getEnv("WORKING_HOURS_WEDNESDAY", DefaultWeekdayHours),
			time.Thursday:  getEnv("WORKING_HOURS_THURSDAY", DefaultWeekdayHours),
			time.Friday:    getEnv("WORKING_HOURS_FRIDAY", DefaultWeekdayHours),
			time.Saturday:  getEnv("WORKING_HOURS_SATURDAY", DefaultSaturdayHours),
			time.Sunday:    getEnv("WORKING_HOURS_SUNDAY", DefaultSundayHours),
		},
		Holidays:           getEnvSlice("HOLIDAYS", DefaultHolidays),
		CalendarWindowDays: getEnvInt("CALENDAR_WINDOW_DAYS", DefaultCalendarWindowDays),
		LockTTL:            getEnvDuration("APPOINTMENT_LOCK_TTL", DefaultLockTTL),

		CalendarAuthUsername: getEnv("CALENDAR_AUTH_USERNAME", DefaultCalendarAuthUsername),
		CalendarAuthPassword: getEnv("CALENDAR_AUTH_PASSWORD", DefaultCalendarAuthPassword),

		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", DefaultCORSAllowedOrigins),

		KafkaEnabled: getEnvBool("KAFKA_ENABLED", DefaultKafkaEnabled),
		KafkaBrokers: getEnvSlice("KAFKA_BROKERS", DefaultKafkaBrokers),
		KafkaTopic:   getEnv("KAFKA_TOPIC", DefaultKafkaTopic),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMinute),

		LogLevel:  getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat: getEnv("LOG_FORMAT", DefaultLogFormat),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})
	cfg.Client = client.NewClient()

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// SetMongo connects the shared Mongo client.
func (c *Config) SetMongo() {
	c.Client.SetMongo(c.Log, c.MongoURI, c.MongoConnectTimeout)
}

// Validate checks settings that would otherwise fail deep inside a
// request. Returns the first problem found.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDatabase == "" {
		return fmt.Errorf("MONGO_DATABASE is required")
	}
	if c.SlotDuration <= 0 {
		return fmt.Errorf("SLOT_DURATION must be positive, got %s", c.SlotDuration)
	}
	if c.CalendarWindowDays <= 0 {
		return fmt.Errorf("CALENDAR_WINDOW_DAYS must be positive, got %d", c.CalendarWindowDays)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("APPOINTMENT_LOCK_TTL must be positive, got %s", c.LockTTL)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if _, err := c.BuildCalendar(); err != nil {
		return err
	}
	return nil
}

// BuildCalendar parses the working hours and holiday settings into the
// immutable calendar the scheduling packages consume.
func (c *Config) BuildCalendar() (schedule.Calendar, error) {
	hours := make(schedule.WorkingHours, len(c.WorkingHours))
	for day, raw := range c.WorkingHours {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.EqualFold(raw, "closed") {
			continue
		}
		dh, err := schedule.ParseDayHours(raw)
		if err != nil {
			return schedule.Calendar{}, fmt.Errorf("working hours for %s: %w", day, err)
		}
		hours[day] = dh
	}

	holidays := make(schedule.HolidaySet, len(c.Holidays))
	for _, raw := range c.Holidays {
		h, err := schedule.ParseHoliday(strings.TrimSpace(raw))
		if err != nil {
			return schedule.Calendar{}, fmt.Errorf("holiday %q: %w", raw, err)
		}
		holidays[h] = struct{}{}
	}

	return schedule.NewCalendar(hours, holidays), nil
}

// LogConfiguration prints the effective settings at startup. Secrets
// are redacted.
func (c *Config) LogConfiguration() {
	c.Log.Info("configuration loaded",
		"service", c.ServiceName,
		"environment", c.Environment,
		"port", c.Port,
		"mongo_database", c.MongoDatabase,
		"slot_duration", c.SlotDuration.String(),
		"holidays", strings.Join(c.Holidays, ","),
		"calendar_window_days", c.CalendarWindowDays,
		"lock_ttl", c.LockTTL.String(),
		"kafka_enabled", c.KafkaEnabled,
		"kafka_topic", c.KafkaTopic,
		"rate_limit_per_minute", c.RateLimitPerMinute,
		"cors_origins", strings.Join(c.CORSAllowedOrigins, ","),
		"log_level", c.LogLevel,
		"log_format", c.LogFormat,
	)
}
