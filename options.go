package flatbin

import (
	"runtime"

	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/format"
	"github.com/arloliu/flatbin/internal/options"
	"github.com/arloliu/flatbin/serialize"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// DefaultMaxCapacity is the largest region SerializeGrowing allocates unless
// WithMaxCapacity says otherwise.
const DefaultMaxCapacity = 64 * 1024 * 1024

type serializerConfig struct {
	logger        *zap.Logger
	compression   format.CompressionType
	framed        bool
	sharedStrings bool
	buckets       int
	maxCapacity   int
	parallelism   int
	identifier    string
}

func defaultSerializerConfig() *serializerConfig {
	return &serializerConfig{
		logger:        zap.NewNop(),
		compression:   format.CompressionNone,
		sharedStrings: true,
		buckets:       serialize.DefaultSharedStringBuckets,
		maxCapacity:   DefaultMaxCapacity,
		parallelism:   runtime.GOMAXPROCS(0),
	}
}

// SerializerOption configures a Serializer.
type SerializerOption = options.Option[*serializerConfig]

// WithLogger sets the logger used for capacity growth messages. A nil logger disables logging.
func WithLogger(logger *zap.Logger) SerializerOption {
	return options.NoError(func(c *serializerConfig) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

// WithCompression wraps every finished buffer in a frame whose body is compressed with
// the given codec. format.CompressionNone frames the buffer without compressing it.
func WithCompression(compression format.CompressionType) SerializerOption {
	return options.New(func(c *serializerConfig) error {
		if err := compression.Validate(); err != nil {
			return err
		}
		c.compression = compression
		c.framed = true

		return nil
	})
}

// WithSharedStrings enables or disables string deduplication through a shared string
// cache. Enabled by default.
func WithSharedStrings(enabled bool) SerializerOption {
	return options.NoError(func(c *serializerConfig) {
		c.sharedStrings = enabled
	})
}

// WithSharedStringBuckets sets the bucket count of each pass's shared string cache.
func WithSharedStringBuckets(n int) SerializerOption {
	return options.New(func(c *serializerConfig) error {
		if n <= 0 {
			return errors.Wrapf(errs.ErrOutOfRange, "shared string bucket count %d", n)
		}
		c.buckets = n

		return nil
	})
}

// WithMaxCapacity caps the region size SerializeGrowing may reach.
func WithMaxCapacity(n int) SerializerOption {
	return options.New(func(c *serializerConfig) error {
		if n <= 0 {
			return errors.Wrapf(errs.ErrOutOfRange, "max capacity %d", n)
		}
		c.maxCapacity = n

		return nil
	})
}

// WithParallelism limits the number of passes SerializeBatch runs at once.
// Defaults to GOMAXPROCS.
func WithParallelism(n int) SerializerOption {
	return options.New(func(c *serializerConfig) error {
		if n <= 0 {
			return errors.Wrapf(errs.ErrOutOfRange, "parallelism %d", n)
		}
		c.parallelism = n

		return nil
	})
}

// WithFileIdentifier stores a 4-byte identifier right after the root offset of every buffer.
func WithFileIdentifier(identifier string) SerializerOption {
	return options.New(func(c *serializerConfig) error {
		if len(identifier) != serialize.FileIdentifierLength {
			return errors.Wrapf(errs.ErrOutOfRange, "file identifier %q must be %d bytes",
				identifier, serialize.FileIdentifierLength)
		}
		c.identifier = identifier

		return nil
	})
}
