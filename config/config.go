package config

import (
	"database/sql"
	"fmt"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
	"strings"
	"video-stream/constant"
)

type Config struct {
	App        App           `yaml:"app"`
	Server     Server        `yaml:"server"`
	Storage    Storage       `yaml:"storage"`
	Processing Processing    `yaml:"processing"`
	DBDriver   string        `yaml:"db_driver"`
	DB         *sql.DB       `yaml:"db"`
	Queue      *RabbitMQ     `yaml:"rabbitmq"`
	Archive    *minio.Client `yaml:"archive"`
	Bucket     string        `yaml:"minio_bucket"`
}

type App struct {
	Environment string `yaml:"environment"`
}

type Server struct {
	HttpPort         string `yaml:"http_port"`
	Workers          int    `yaml:"workers"`
	StreamBufferSize int    `yaml:"stream_buffer_size"`
	MaxUploadSize    int64  `yaml:"max_upload_size"`
}

type Storage struct {
	UploadsDir   string `yaml:"uploads_dir"`
	ProcessedDir string `yaml:"processed_dir"`
}

type Processing struct {
	Driver     string `yaml:"driver"`
	QueueSize  int    `yaml:"queue_size"`
	FFmpegPath string `yaml:"ffmpeg_path"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", constant.EnvironmentDevelop.String())
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.workers", 2)
	v.SetDefault("server.stream_buffer_size", 32<<10)
	v.SetDefault("server.max_upload_size", int64(2<<30))
	v.SetDefault("storage.uploads_dir", "uploads")
	v.SetDefault("storage.processed_dir", "videos")
	v.SetDefault("processing.driver", string(constant.ProcessingDriverLocal))
	v.SetDefault("processing.queue_size", 100)
	v.SetDefault("processing.ffmpeg_path", "ffmpeg")
	v.SetDefault("db.driver", string(constant.DBDriverMemory))
	v.SetDefault("rabbitmq_port", 5672)
	v.SetDefault("rabbitmq_kind", "direct")
	v.SetDefault("rabbitmq_exchange", "processing_exchange")
	v.SetDefault("minio.bucket", "videos")
}

// Load reads config.yaml from path. A missing file is not an error; every
// key has a default and can be overridden with VIDEO_STREAM_<KEY>.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("video_stream")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		App: App{
			Environment: v.GetString("app.environment"),
		},
		Server: Server{
			HttpPort:         v.GetString("server.port"),
			Workers:          v.GetInt("server.workers"),
			StreamBufferSize: v.GetInt("server.stream_buffer_size"),
			MaxUploadSize:    v.GetInt64("server.max_upload_size"),
		},
		Storage: Storage{
			UploadsDir:   v.GetString("storage.uploads_dir"),
			ProcessedDir: v.GetString("storage.processed_dir"),
		},
		Processing: Processing{
			Driver:     v.GetString("processing.driver"),
			QueueSize:  v.GetInt("processing.queue_size"),
			FFmpegPath: v.GetString("processing.ffmpeg_path"),
		},
		DBDriver: v.GetString("db.driver"),
		Bucket:   v.GetString("minio.bucket"),
	}

	switch constant.ProcessingDriver(cfg.Processing.Driver) {
	case constant.ProcessingDriverLocal, constant.ProcessingDriverNone:
	case constant.ProcessingDriverRabbitMQ:
		cfg.Queue = &RabbitMQ{
			Host:         v.GetString("rabbitmq_host"),
			Port:         v.GetInt("rabbitmq_port"),
			User:         v.GetString("rabbitmq_user"),
			Pass:         v.GetString("rabbitmq_pass"),
			ExchangeName: v.GetString("rabbitmq_exchange"),
			Kind:         v.GetString("rabbitmq_kind"),
		}
	default:
		return nil, fmt.Errorf("unknown processing driver %q", cfg.Processing.Driver)
	}

	switch constant.DBDriver(cfg.DBDriver) {
	case constant.DBDriverMemory:
	case constant.DBDriverPostgres:
		db, err := sql.Open("postgres", v.GetString("postgresql_host"))
		if err != nil {
			return nil, err
		}
		cfg.DB = db
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}

	if url := v.GetString("minio.url"); url != "" {
		minioClient, err := minio.New(url, &minio.Options{
			Creds:  credentials.NewStaticV4(v.GetString("minio.access_id"), v.GetString("minio.secret_access_key"), ""),
			Secure: v.GetBool("minio.secure"),
		})
		if err != nil {
			return nil, err
		}
		cfg.Archive = minioClient
	}

	return cfg, nil
}
