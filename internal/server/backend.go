package server

import (
	"context"
	"fmt"

	"github.com/alexasparks/6-traits-annotations/internal/config"
	"github.com/alexasparks/6-traits-annotations/internal/sheets"
)

// NewBackend 按配置创建表格存储后端
func NewBackend(ctx context.Context, cfg *config.AppConfig) (sheets.Backend, error) {
	switch cfg.Sheets.Backend {
	case config.BackendGoogle:
		svc, err := sheets.NewGoogleService(ctx, sheets.GoogleCredentials{
			ClientEmail:     cfg.Google.ClientEmail,
			PrivateKey:      cfg.Google.PrivateKey,
			CredentialsFile: config.ResolvePath(cfg.Google.CredentialsFile),
		})
		if err != nil {
			return nil, err
		}
		return sheets.NewGoogleBackend(svc, sheets.GoogleOptions{
			ReadRange:         cfg.Sheets.ReadRange,
			RequestsPerSecond: cfg.Sheets.RequestsPerSecond,
			Burst:             cfg.Sheets.Burst,
			MetadataTTL:       cfg.Sheets.MetadataTTL(),
			CallTimeout:       cfg.Sheets.CallTimeout(),
		}), nil
	case config.BackendXLSX:
		backend, err := sheets.NewXLSXBackend(config.ResolvePath(cfg.XLSX.Dir))
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.BackendMemory:
		return sheets.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown sheets backend %q", cfg.Sheets.Backend)
	}
}
