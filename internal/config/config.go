package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// 存储后端类型
const (
	BackendGoogle = "google"
	BackendXLSX   = "xlsx"
	BackendMemory = "memory"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig           `toml:"server"`
	Data   DataConfig             `toml:"data"`
	Log    LogConfig              `toml:"log"`
	Sheets SheetsConfig           `toml:"sheets"`
	Google GoogleConfig           `toml:"google"`
	XLSX   XLSXConfig             `toml:"xlsx"`
	Raters map[string]RaterConfig `toml:"raters"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int    `toml:"port"`
	DevMode     bool   `toml:"dev_mode"`
	FrontendURL string `toml:"frontend_url"` // 标注界面地址，非 API 路径重定向到此
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir       string `toml:"data_dir"`
	SubmissionLog bool   `toml:"submission_log"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
}

// SheetsConfig 表格存储配置
type SheetsConfig struct {
	Backend                string  `toml:"backend"`
	DefaultSpreadsheetID   string  `toml:"default_spreadsheet_id"`
	RemainingSpreadsheetID string  `toml:"remaining_spreadsheet_id"`
	ReadRange              string  `toml:"read_range"`
	RequestsPerSecond      float64 `toml:"requests_per_second"`
	Burst                  int     `toml:"burst"`
	MetadataTTLSeconds     int     `toml:"metadata_ttl_seconds"`
	CallTimeoutSeconds     int     `toml:"call_timeout_seconds"`
}

// GoogleConfig 服务账号凭据
type GoogleConfig struct {
	ClientEmail     string `toml:"client_email"`
	PrivateKey      string `toml:"private_key"`
	CredentialsFile string `toml:"credentials_file"`
}

// XLSXConfig 本地工作簿目录
type XLSXConfig struct {
	Dir string `toml:"dir"`
}

// RaterConfig 评分员对应的表格
type RaterConfig struct {
	SpreadsheetID    string `toml:"spreadsheet_id"`
	IRRSpreadsheetID string `toml:"irr_spreadsheet_id"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
	EnvFileLoaded bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8080,
			DevMode:     false,
			FrontendURL: "http://localhost:3000",
		},
		Data: DataConfig{
			DataDir:       "data",
			SubmissionLog: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Sheets: SheetsConfig{
			Backend:            BackendGoogle,
			ReadRange:          "A:Z",
			RequestsPerSecond:  1,
			Burst:              5,
			MetadataTTLSeconds: 600,
			CallTimeoutSeconds: 30,
		},
		XLSX: XLSXConfig{
			Dir: "sheets",
		},
		Raters: map[string]RaterConfig{},
	}
}

// MetadataTTL 工作表名缓存时间
func (c SheetsConfig) MetadataTTL() time.Duration {
	return time.Duration(c.MetadataTTLSeconds) * time.Second
}

// CallTimeout 单次表格调用超时
func (c SheetsConfig) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 加载配置：默认值 → config.toml → .env → 环境变量
// path 为空时使用可执行文件同目录下的 config.toml
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	// .env 可选
	if err := godotenv.Load(); err == nil {
		info.EnvFileLoaded = true
	}

	if applyEnv(config, os.Environ()) {
		info.PortSpecified = true
	}
	if config.Raters == nil {
		config.Raters = map[string]RaterConfig{}
	}

	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

var raterEnvPattern = regexp.MustCompile(`^RATER_(\d{1,2})_(IRR_)?SPREADSHEET_ID$`)

// applyEnv 用环境变量覆盖配置，返回是否通过环境变量指定了端口
func applyEnv(config *AppConfig, environ []string) bool {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			continue
		}
		env[k] = v
	}

	if v, ok := env["GOOGLE_SHEETS_CLIENT_EMAIL"]; ok {
		config.Google.ClientEmail = v
	}
	if v, ok := env["GOOGLE_SHEETS_PRIVATE_KEY"]; ok {
		// 环境变量中的换行通常被转义
		config.Google.PrivateKey = strings.ReplaceAll(v, `\n`, "\n")
	}
	if v, ok := env["GOOGLE_SHEETS_CREDENTIALS_FILE"]; ok {
		config.Google.CredentialsFile = v
	}
	if v, ok := env["GOOGLE_SHEETS_SPREADSHEET_ID"]; ok {
		config.Sheets.DefaultSpreadsheetID = v
	}
	if v, ok := env["REMAINING_SPREADSHEET_ID"]; ok {
		config.Sheets.RemainingSpreadsheetID = v
	}
	if v, ok := env["ANNOTATIONS_BACKEND"]; ok {
		config.Sheets.Backend = v
	}
	if v, ok := env["ANNOTATIONS_XLSX_DIR"]; ok {
		config.XLSX.Dir = v
	}

	if config.Raters == nil {
		config.Raters = map[string]RaterConfig{}
	}
	for k, v := range env {
		m := raterEnvPattern.FindStringSubmatch(k)
		if m == nil {
			continue
		}
		code := normalizeRaterCode(m[1])
		rc := config.Raters[code]
		if m[2] != "" {
			rc.IRRSpreadsheetID = v
		} else {
			rc.SpreadsheetID = v
		}
		config.Raters[code] = rc
	}

	if v, ok := env["PORT"]; ok {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
			return true
		}
	}
	return false
}

// normalizeRaterCode 去掉前导零："01" → "1"
func normalizeRaterCode(code string) string {
	n, err := strconv.Atoi(code)
	if err != nil {
		return code
	}
	return strconv.Itoa(n)
}

var raterCodePattern = regexp.MustCompile(`^\d{1,2}$`)

// Validate 校验配置
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Server.Port))
	}

	switch c.Sheets.Backend {
	case BackendGoogle:
		if c.Google.CredentialsFile == "" && (c.Google.ClientEmail == "" || c.Google.PrivateKey == "") {
			errs = append(errs, errors.New("google backend requires GOOGLE_SHEETS_CLIENT_EMAIL and GOOGLE_SHEETS_PRIVATE_KEY or a credentials file"))
		}
	case BackendXLSX:
		if c.XLSX.Dir == "" {
			errs = append(errs, errors.New("xlsx backend requires xlsx.dir"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown sheets backend %q", c.Sheets.Backend))
	}

	for _, code := range c.RaterCodes() {
		if !raterCodePattern.MatchString(code) {
			errs = append(errs, fmt.Errorf("invalid rater code %q", code))
		}
	}

	return errors.Join(errs...)
}

// RaterCodes 已配置的评分员编号（按数值排序）
func (c *AppConfig) RaterCodes() []string {
	codes := make([]string, 0, len(c.Raters))
	for code := range c.Raters {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		a, errA := strconv.Atoi(codes[i])
		b, errB := strconv.Atoi(codes[j])
		if errA != nil || errB != nil {
			return codes[i] < codes[j]
		}
		return a < b
	})
	return codes
}

// Masked 返回隐藏敏感字段后的副本（用于展示）
func (c *AppConfig) Masked() *AppConfig {
	out := *c
	if out.Google.PrivateKey != "" {
		out.Google.PrivateKey = "********"
	}
	out.Raters = make(map[string]RaterConfig, len(c.Raters))
	for k, v := range c.Raters {
		out.Raters[k] = v
	}
	return &out
}

// SaveConfig 保存配置到 path
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolvePath 相对路径按可执行文件目录解析，绝对路径原样返回
func ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, path)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolvePath(config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}
