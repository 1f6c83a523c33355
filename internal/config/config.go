package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort はマップサーバーが待ち受ける固定ポート
	DefaultPort = 8000
	// DefaultTargetFile はルートパスで配信するマップファイルの相対パス
	DefaultTargetFile = "output/comparison/results_map.html"
)

// ErrInvalidConfig は設定の検証に失敗したことを表す
var ErrInvalidConfig = errors.New("無効な設定")

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Map    MapConfig    `yaml:"map" toml:"map"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`                            // リッスンするホスト（空なら全インターフェース）
	Port int    `yaml:"port" toml:"port" validate:"min=0,max=65535"` // リッスンするポート番号（0はテスト用の空きポート）

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout" toml:"read_timeout" validate:"gte=0"`   // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout" validate:"gte=0"` // 書き込みタイムアウト
}

// MapConfig は配信するマップファイルの設定
type MapConfig struct {
	Root       string `yaml:"root" toml:"root" validate:"required"`                         // 静的ファイルのルートディレクトリ
	TargetFile string `yaml:"target_file" toml:"target_file" validate:"required,localpath"` // "/" を書き換える先のファイル
}

// Default は固定のデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "",
			Port:         DefaultPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0,
		},
		Map: MapConfig{
			Root:       ".",
			TargetFile: DefaultTargetFile,
		},
	}
}

// Load は設定を読み込む
// 環境変数や引数は参照せず、検証済みのデフォルト値を返す
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// LoadFile はTOMLまたはYAMLの設定ファイルを読み込む
// ファイルに書かれていない項目はデフォルト値のまま残る
// サーバーを組み込む側のためのAPIで、コマンド本体は Load の固定値だけを使う
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("未対応の設定ファイル形式: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// RootURL はブラウザで開くURLを返す
func (c *Config) RootURL() string {
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

// newValidator は設定用のバリデータを作成する
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// ルートの外を指すパスや絶対パスは受け付けない
	err := v.RegisterValidation("localpath", func(fl validator.FieldLevel) bool {
		return filepath.IsLocal(filepath.FromSlash(fl.Field().String()))
	})
	if err != nil {
		panic(fmt.Sprintf("バリデーションの登録に失敗: %v", err))
	}

	return v
}
