package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eBu1171/winona-chat/domain"
)

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=3001" validate:"gte=1,lte=65535"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	BufferSize           int           `env:"BUFFER_SIZE,default=256" validate:"gt=0"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=32" validate:"gt=0"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=30s" validate:"gt=0"`
	AttributePairs       string        `env:"ATTRIBUTE_PAIRS,default=male:female" validate:"required"`
}

// Validate applies the semantic rules the env decoding cannot express.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if _, err := c.Complement(); err != nil {
		return err
	}
	return nil
}

// Complement parses ATTRIBUTE_PAIRS ("a:b[,c:d...]") into the matching rule.
func (c Config) Complement() (domain.Complement, error) {
	pairs := make(map[domain.Attribute]domain.Attribute)
	for _, raw := range strings.Split(c.AttributePairs, ",") {
		parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("ATTRIBUTE_PAIRS entry %q must be value:complement", raw)
		}
		a := domain.Attribute(strings.TrimSpace(parts[0]))
		b := domain.Attribute(strings.TrimSpace(parts[1]))
		pairs[a] = b
	}
	return domain.NewComplement(pairs)
}
