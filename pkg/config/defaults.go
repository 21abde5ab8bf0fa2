package config

import "time"

const (
	DefaultEnvironment = "development"
	DefaultPort        = "8080"

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = 1 << 20

	DefaultMongoURI            = "mongodb://localhost:27017"
	DefaultMongoDatabase       = "repair_shop"
	DefaultMongoConnectTimeout = 10 * time.Second

	DefaultSlotDuration  = 30 * time.Minute
	DefaultWeekdayHours  = "09:00-16:00"
	DefaultSaturdayHours = "10:00-15:00"
	DefaultSundayHours   = "closed"

	DefaultCalendarWindowDays = 90
	DefaultLockTTL            = 30 * time.Second

	DefaultCalendarAuthUsername = "admin"
	DefaultCalendarAuthPassword = "repair123"

	DefaultKafkaEnabled = false
	DefaultKafkaTopic   = "appointment.events"

	DefaultRateLimitPerMinute = 60

	DefaultLogLevel  = "INFO"
	DefaultLogFormat = "JSON"
)

var (
	DefaultHolidays           = []string{"05-01", "10-03", "12-25", "12-26"}
	DefaultCORSAllowedOrigins = []string{"*"}
	DefaultKafkaBrokers       = []string{"localhost:9092"}
)
