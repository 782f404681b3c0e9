package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"edi-engine"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"edi"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Kafka Producer (document lifecycle events)
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"edi-document-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"true"`

	// SFTP transport (trading partner file store)
	SFTPHost              string        `env:"SFTP_HOST" env-default:""`
	SFTPPort              int           `env:"SFTP_PORT" env-default:"22"`
	SFTPUser              string        `env:"SFTP_USER" env-default:""`
	SFTPPassword          string        `env:"SFTP_PASSWORD" env-default:""`
	SFTPTimeout           time.Duration `env:"SFTP_TIMEOUT" env-default:"30s"`
	SFTPInboundDirectory  string        `env:"SFTP_INBOUND_DIRECTORY" env-default:"/Outbox"`
	SFTPOutboundDirectory string        `env:"SFTP_OUTBOUND_DIRECTORY" env-default:"/Inbox"`
	SFTPArchiveDirectory  string        `env:"SFTP_ARCHIVE_DIRECTORY" env-default:"/Outbox/Archive"`

	// Trading partner
	PartnerID             string   `env:"EDI_PARTNER_ID" env-default:"" validate:"required"`
	PartnerSenderID       string   `env:"EDI_SENDER_ID" env-default:"" validate:"required,max=15"`
	PartnerReceiverID     string   `env:"EDI_RECEIVER_ID" env-default:"" validate:"required,max=15"`
	PartnerAccountNumber  string   `env:"EDI_ACCOUNT_NUMBER" env-default:""`
	PartnerUsageIndicator string   `env:"EDI_USAGE_INDICATOR" env-default:"P" validate:"oneof=P T"` // P=production, T=test
	ElementSeparator      string   `env:"EDI_ELEMENT_SEPARATOR" env-default:"*" validate:"len=1"`
	SubElementSeparator   string   `env:"EDI_SUB_ELEMENT_SEPARATOR" env-default:":" validate:"len=1"`
	SegmentTerminator     string   `env:"EDI_SEGMENT_TERMINATOR" env-default:"~" validate:"len=1"`
	HardSurfaceKeywords   []string `env:"EDI_HARD_SURFACE_KEYWORDS" env-default:"tile,vinyl,laminate,hardwood,wood,stone,lvp,lvt"`
	InboundFileExtensions []string `env:"EDI_INBOUND_FILE_EXTENSIONS" env-default:".edi,.txt,.x12"`

	// Ship-to (static per tenant, emitted on outbound 850s)
	ShipToName       string `env:"EDI_SHIP_TO_NAME" env-default:""`
	ShipToCode       string `env:"EDI_SHIP_TO_CODE" env-default:""`
	ShipToAddress    string `env:"EDI_SHIP_TO_ADDRESS" env-default:""`
	ShipToCity       string `env:"EDI_SHIP_TO_CITY" env-default:""`
	ShipToState      string `env:"EDI_SHIP_TO_STATE" env-default:""`
	ShipToPostalCode string `env:"EDI_SHIP_TO_POSTAL_CODE" env-default:""`

	// Reconciliation poller
	PollEnabled  bool          `env:"EDI_POLL_ENABLED" env-default:"true"`
	PollInterval time.Duration `env:"EDI_POLL_INTERVAL" env-default:"5m"`
}
