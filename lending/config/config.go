package config

import (
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/policy"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/logger"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/Astemirdum/library-lending/pkg/redis"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LENDING_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LENDING_HTTP_PORT" default:"8060"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration
}

type AccountHTTPServer struct {
	Host string `envconfig:"ACCOUNT_HTTP_HOST"`
	Port string `envconfig:"ACCOUNT_HTTP_PORT"`
}

func (s AccountHTTPServer) Enabled() bool { return s.Host != "" }

type PricingHTTPServer struct {
	Host string `envconfig:"PRICING_HTTP_HOST"`
	Port string `envconfig:"PRICING_HTTP_PORT"`
}

func (s PricingHTTPServer) Enabled() bool { return s.Host != "" }

// Policy holds the lending rules. Every field has a default, so zero is a real
// setting: MAX_RENEWALS=0 disables renewals, FINE_PER_DAY=0 waives late fees.
type Policy struct {
	DefaultLoanDays int   `envconfig:"DEFAULT_LOAN_DAYS" default:"14"`
	MaxLoanDays     int   `envconfig:"MAX_LOAN_DAYS" default:"30"`
	MaxRenewals     int   `envconfig:"MAX_RENEWALS" default:"2"`
	FinePerDay      int64 `envconfig:"FINE_PER_DAY" default:"5000"`
	LostMultiplier  int64 `envconfig:"LOST_MULTIPLIER" default:"2"`
	DamagedFee      int64 `envconfig:"DAMAGED_FEE" default:"50000"`
	ReminderDays    int   `envconfig:"REMINDER_DAYS" default:"3"`
	MemberLimit     int   `envconfig:"MEMBER_BORROW_LIMIT" default:"3"`
	LibrarianLimit  int   `envconfig:"LIBRARIAN_BORROW_LIMIT" default:"10"`
	AdminLimit      int   `envconfig:"ADMIN_BORROW_LIMIT" default:"20"`
	DefaultLimit    int   `envconfig:"DEFAULT_BORROW_LIMIT" default:"3"`
}

const day = 24 * time.Hour

// Build validates the configured rules into an immutable policy.
func (p Policy) Build() (policy.Policy, error) {
	return policy.New(
		policy.WithDefaultLoanPeriod(time.Duration(p.DefaultLoanDays)*day),
		policy.WithMaxLoanPeriod(time.Duration(p.MaxLoanDays)*day),
		policy.WithMaxRenewals(p.MaxRenewals),
		policy.WithFinePerDay(model.Money(p.FinePerDay)),
		policy.WithLostMultiplier(p.LostMultiplier),
		policy.WithDamagedFee(model.Money(p.DamagedFee)),
		policy.WithReminderBefore(time.Duration(p.ReminderDays)*day),
		policy.WithBorrowLimit(model.RoleMember, p.MemberLimit),
		policy.WithBorrowLimit(model.RoleLibrarian, p.LibrarianLimit),
		policy.WithBorrowLimit(model.RoleAdmin, p.AdminLimit),
		policy.WithDefaultBorrowLimit(p.DefaultLimit),
	)
}

type Config struct {
	Server        HTTPServer        `yaml:"server"`
	Database      postgres.DB       `yaml:"db"`
	Kafka         kafka.Config      `yaml:"kafka"`
	Redis         redis.Config      `yaml:"redis"`
	Account       AccountHTTPServer `yaml:"account"`
	Pricing       PricingHTTPServer `yaml:"pricing"`
	Policy        Policy            `yaml:"policy"`
	Log           logger.Log        `yaml:"log"`
	OpTimeout     time.Duration     `yaml:"opTimeout" envconfig:"OP_TIMEOUT" default:"10s"`
	SweepInterval time.Duration     `yaml:"sweepInterval" envconfig:"SWEEP_INTERVAL" default:"1h"`
	InMemory      bool              `yaml:"inMemory" envconfig:"LENDING_IN_MEMORY"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
