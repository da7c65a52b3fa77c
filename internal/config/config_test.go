package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deppfellow/meetapp/internal/config"
	"github.com/deppfellow/meetapp/internal/gate"
)

var baseEnv = map[string]string{
	"MEETAPP_PRIMARY.ENV":                 "test",
	"MEETAPP_SERVER.PORT":                 "8080",
	"MEETAPP_SERVER.READ_TIMEOUT":         "30",
	"MEETAPP_SERVER.WRITE_TIMEOUT":        "30",
	"MEETAPP_SERVER.IDLE_TIMEOUT":         "60",
	"MEETAPP_SERVER.CORS_ALLOWED_ORIGINS": "http://localhost:3000,http://localhost:5173",
	"MEETAPP_DATABASE.HOST":               "localhost",
	"MEETAPP_DATABASE.PORT":               "5432",
	"MEETAPP_DATABASE.USER":               "postgres",
	"MEETAPP_DATABASE.NAME":               "meetapp",
	"MEETAPP_DATABASE.SSL_MODE":           "disable",
	"MEETAPP_DATABASE.MAX_OPEN_CONNS":     "25",
	"MEETAPP_DATABASE.MAX_IDLE_CONNS":     "25",
	"MEETAPP_DATABASE.CONN_MAX_LIFETIME":  "300",
	"MEETAPP_DATABASE.CONN_MAX_IDLE_TIME": "300",
	"MEETAPP_REDIS.ADDRESS":               "localhost:6379",
	"MEETAPP_AUTH.SECRET_KEY":             "0123456789abcdef0123456789abcdef",
}

func setEnv(env map[string]string) {
	for k, v := range env {
		GinkgoT().Setenv(k, v)
	}
}

var _ = Describe("Load", func() {
	BeforeEach(func() {
		setEnv(baseEnv)
	})

	It("maps dotted env keys into nested blocks", func() {
		cfg, err := config.Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal("8080"))
		Expect(cfg.Server.CORSAllowedOrigins).To(ConsistOf("http://localhost:3000", "http://localhost:5173"))
		Expect(cfg.Database.Port).To(Equal(5432))
		Expect(cfg.Redis.Address).To(Equal("localhost:6379"))
	})

	It("fills in defaults for optional blocks", func() {
		cfg, err := config.Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.GateStatusMode()).To(Equal(gate.ModeLegacy))
		Expect(cfg.Auth.TokenIssuer).To(Equal("meetapp"))
		Expect(cfg.Auth.TokenTTL).To(Equal(24 * time.Hour))
		Expect(cfg.Observability).NotTo(BeNil())
		Expect(cfg.Observability.ServiceName).To(Equal("meetapp"))
		Expect(cfg.Observability.Environment).To(Equal("test"))
	})

	It("accepts the conventional status mode", func() {
		GinkgoT().Setenv("MEETAPP_SERVER.STATUS_MODE", "conventional")

		cfg, err := config.Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.GateStatusMode()).To(Equal(gate.ModeConventional))
	})

	It("rejects an unknown status mode", func() {
		GinkgoT().Setenv("MEETAPP_SERVER.STATUS_MODE", "strict")

		_, err := config.Load()
		Expect(err).To(MatchError(ContainSubstring("StatusMode")))
	})

	It("rejects a short signing secret", func() {
		GinkgoT().Setenv("MEETAPP_AUTH.SECRET_KEY", "short")

		_, err := config.Load()
		Expect(err).To(MatchError(ContainSubstring("SecretKey")))
	})
})

var _ = Describe("ObservabilityConfig", func() {
	It("defaults the log level by environment", func() {
		obs := config.DefaultObservabilityConfig()
		obs.Logging.Level = ""

		obs.Environment = "production"
		Expect(obs.GetLogLevel()).To(Equal("info"))

		obs.Environment = "local"
		Expect(obs.GetLogLevel()).To(Equal("debug"))
	})

	It("rejects unknown levels", func() {
		obs := config.DefaultObservabilityConfig()
		obs.Logging.Level = "verbose"

		Expect(obs.Validate()).To(MatchError(ContainSubstring("invalid logging level")))
	})
})
