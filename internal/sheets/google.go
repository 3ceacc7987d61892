package sheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleCredentials 服务账号凭据
type GoogleCredentials struct {
	ClientEmail     string
	PrivateKey      string
	CredentialsFile string
}

// GoogleOptions Google Sheets 调用参数
type GoogleOptions struct {
	ReadRange         string        // 默认 A:Z
	RequestsPerSecond float64       // <=0 不限流
	Burst             int           // 默认 5
	MetadataTTL       time.Duration // 工作表名缓存时间，默认 10 分钟
	CallTimeout       time.Duration // 单次调用超时，0 表示只受请求 context 约束
}

// GoogleBackend 基于 Google Sheets API v4 的存储
type GoogleBackend struct {
	svc     *gsheets.Service
	opts    GoogleOptions
	titles  *gocache.Cache
	limiter *rate.Limiter
}

// NewGoogleService 使用服务账号凭据创建 Sheets 客户端
func NewGoogleService(ctx context.Context, creds GoogleCredentials) (*gsheets.Service, error) {
	var client *http.Client
	switch {
	case creds.CredentialsFile != "":
		data, err := os.ReadFile(creds.CredentialsFile)
		if err != nil {
			return nil, newError(KindConfiguration, "init", "", fmt.Errorf("read credentials file: %w", err))
		}
		conf, err := google.JWTConfigFromJSON(data, gsheets.SpreadsheetsScope)
		if err != nil {
			return nil, newError(KindConfiguration, "init", "", fmt.Errorf("parse credentials file: %w", err))
		}
		client = conf.Client(ctx)
	case creds.ClientEmail != "" && creds.PrivateKey != "":
		conf := &jwt.Config{
			Email:      creds.ClientEmail,
			PrivateKey: []byte(creds.PrivateKey),
			Scopes:     []string{gsheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		client = conf.Client(ctx)
	default:
		return nil, newError(KindConfiguration, "init", "", errors.New("google service account credentials are not configured"))
	}

	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, newError(KindConfiguration, "init", "", fmt.Errorf("create sheets service: %w", err))
	}
	return svc, nil
}

// NewGoogleBackend 创建 Google Sheets 存储
func NewGoogleBackend(svc *gsheets.Service, opts GoogleOptions) *GoogleBackend {
	if opts.ReadRange == "" {
		opts.ReadRange = DefaultReadRange
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.MetadataTTL <= 0 {
		opts.MetadataTTL = 10 * time.Minute
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &GoogleBackend{
		svc:     svc,
		opts:    opts,
		titles:  gocache.New(opts.MetadataTTL, 2*opts.MetadataTTL),
		limiter: rate.NewLimiter(limit, opts.Burst),
	}
}

// FetchRows 读取第一个工作表的 A:Z 范围
func (b *GoogleBackend) FetchRows(ctx context.Context, spreadsheetID string) (*Table, error) {
	title, err := b.sheetTitle(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := b.callContext(ctx)
	defer cancel()
	if err := b.wait(callCtx, "fetch", spreadsheetID); err != nil {
		return nil, err
	}

	resp, err := b.svc.Spreadsheets.Values.Get(spreadsheetID, A1Range(title, b.opts.ReadRange)).Context(callCtx).Do()
	if err != nil {
		// 工作表可能被重命名，下次重新获取
		b.titles.Delete(spreadsheetID)
		return nil, classify("fetch", spreadsheetID, err)
	}

	return &Table{SheetName: title, Rows: toStrings(resp.Values)}, nil
}

// WriteRows 一次 batchUpdate 覆盖多行（RAW）
func (b *GoogleBackend) WriteRows(ctx context.Context, spreadsheetID string, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	title, err := b.sheetTitle(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	data := make([]*gsheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		rng, err := RowRange(u.Row, len(u.Values))
		if err != nil {
			return newError(KindBackend, "write", spreadsheetID, err)
		}
		data = append(data, &gsheets.ValueRange{
			Range:  A1Range(title, rng),
			Values: [][]interface{}{toInterfaces(u.Values)},
		})
	}

	callCtx, cancel := b.callContext(ctx)
	defer cancel()
	if err := b.wait(callCtx, "write", spreadsheetID); err != nil {
		return err
	}

	req := &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := b.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(callCtx).Do(); err != nil {
		return classify("write", spreadsheetID, err)
	}
	return nil
}

// AppendRows 追加到表尾（RAW, INSERT_ROWS）
func (b *GoogleBackend) AppendRows(ctx context.Context, spreadsheetID string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	title, err := b.sheetTitle(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = toInterfaces(r)
	}

	callCtx, cancel := b.callContext(ctx)
	defer cancel()
	if err := b.wait(callCtx, "append", spreadsheetID); err != nil {
		return err
	}

	_, err = b.svc.Spreadsheets.Values.
		Append(spreadsheetID, A1Range(title, b.opts.ReadRange), &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(callCtx).
		Do()
	if err != nil {
		return classify("append", spreadsheetID, err)
	}
	return nil
}

// sheetTitle 返回第一个工作表名（带缓存）
func (b *GoogleBackend) sheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	if v, ok := b.titles.Get(spreadsheetID); ok {
		return v.(string), nil
	}

	callCtx, cancel := b.callContext(ctx)
	defer cancel()
	if err := b.wait(callCtx, "metadata", spreadsheetID); err != nil {
		return "", err
	}

	ss, err := b.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(callCtx).Do()
	if err != nil {
		return "", classify("metadata", spreadsheetID, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil || ss.Sheets[0].Properties.Title == "" {
		return "", newError(KindBackend, "metadata", spreadsheetID, ErrNoSheet)
	}

	title := ss.Sheets[0].Properties.Title
	b.titles.SetDefault(spreadsheetID, title)
	return title, nil
}

func (b *GoogleBackend) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.opts.CallTimeout > 0 {
		return context.WithTimeout(ctx, b.opts.CallTimeout)
	}
	return context.WithCancel(ctx)
}

func (b *GoogleBackend) wait(ctx context.Context, op, spreadsheetID string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return newError(KindTransient, op, spreadsheetID, fmt.Errorf("rate limiter: %w", err))
	}
	return nil
}

// classify 将 Sheets API 错误归类
func classify(op, spreadsheetID string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
			return newError(KindTransient, op, spreadsheetID, err)
		case gerr.Code == http.StatusNotFound || gerr.Code == http.StatusForbidden || gerr.Code == http.StatusUnauthorized:
			return newError(KindConfiguration, op, spreadsheetID, err)
		default:
			return newError(KindBackend, op, spreadsheetID, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newError(KindTransient, op, spreadsheetID, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindTransient, op, spreadsheetID, err)
	}
	return newError(KindBackend, op, spreadsheetID, err)
}

func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, r := range values {
		row := make([]string, len(r))
		for j, v := range r {
			if s, ok := v.(string); ok {
				row[j] = s
				continue
			}
			row[j] = strings.TrimSpace(fmt.Sprint(v))
		}
		rows[i] = row
	}
	return rows
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
