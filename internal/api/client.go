// Package api はバックエンドREST APIのクライアントを提供する。
//
// Clientは1つのベースURLに束縛され、送信前のリクエストにインターセプタを順に適用する。
// リソースごとの呼び出しはAuth、Tasks、Meetings、Chatの各グループにまとめている。
// HTTPエラーと通信エラーはそのまま呼び出し元に返し、リトライや入力検証は行わない。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultBaseURL はバックエンドAPIの既定のベースURL。
	DefaultBaseURL = "http://localhost:8000"

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Recorder はAPI呼び出しの結果を記録するインターフェース。
// statusは通信エラー時に0になる。
type Recorder interface {
	RecordAPIRequest(method, path string, status int, duration time.Duration)
}

// Client はバックエンドAPIのクライアント。
// コンポジションルートで1度だけ生成し、利用側に渡す。
type Client struct {
	baseURL      string
	httpClient   *http.Client
	interceptors []RequestInterceptor
	logger       *slog.Logger
	recorder     Recorder

	Auth     *AuthService
	Tasks    *TaskService
	Meetings *MeetingService
	Chat     *ChatService
}

// Option はClientの任意設定。
type Option func(*Client)

// WithHTTPClient は送信に使うhttp.Clientを差し替える。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithInterceptor はリクエストインターセプタを追加する。登録順に適用される。
func WithInterceptor(ic RequestInterceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, ic) }
}

// WithLogger はログ出力先を設定する。
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRecorder はメトリクスの記録先を設定する。
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient はbaseURLに束縛されたClientを生成する。
// http.Clientを指定しない場合、タイムアウトなしでCookieJar付きのクライアントを使う。
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = newDefaultHTTPClient()
	}

	c.Auth = &AuthService{client: c}
	c.Tasks = &TaskService{client: c}
	c.Meetings = &MeetingService{client: c}
	c.Chat = &ChatService{client: c}
	return c
}

// BaseURL はクライアントのベースURLを返す。
func (c *Client) BaseURL() string { return c.baseURL }

func newDefaultHTTPClient() *http.Client {
	hc := &http.Client{}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err == nil {
		hc.Jar = jar
	}
	return hc
}

// endpoint は1回の呼び出しの宛先。patternはメトリクスとログに使うパスの型。
type endpoint struct {
	method  string
	pattern string
	path    string
}

// doJSON はinをJSONエンコードして送信し、応答をoutにデコードする。
func (c *Client) doJSON(ctx context.Context, ep endpoint, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", ep.method, ep.path, err)
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, ep, body, "", out)
}

// do はリクエストを組み立て、インターセプタを適用して送信する。
// contentTypeが空の場合はapplication/jsonを使う。
// インターセプタのエラーと通信エラーは加工せずに返す。
func (c *Client) do(ctx context.Context, ep endpoint, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, ep.method, c.baseURL+ep.path, body)
	if err != nil {
		return fmt.Errorf("api: build request %s %s: %w", ep.method, ep.path, err)
	}
	if contentType == "" {
		contentType = contentTypeJSON
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)

	for _, ic := range c.interceptors {
		if err := ic(req); err != nil {
			return err
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ep, 0, time.Since(start))
		c.logger.Warn("api request failed",
			slog.String("method", ep.method),
			slog.String("path", ep.path),
			slog.String("error", err.Error()),
		)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	c.record(ep, resp.StatusCode, duration)
	if err != nil {
		return fmt.Errorf("api: read response %s %s: %w", ep.method, ep.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("api returned error status",
			slog.String("method", ep.method),
			slog.String("path", ep.path),
			slog.Int("http_status", resp.StatusCode),
		)
		return newStatusError(ep.method, ep.path, resp.StatusCode, data)
	}

	c.logger.Debug("api request completed",
		slog.String("method", ep.method),
		slog.String("path", ep.path),
		slog.Int("http_status", resp.StatusCode),
		slog.Float64("duration_ms", float64(duration.Nanoseconds())/float64(time.Millisecond)),
	)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", ep.method, ep.path, err)
	}
	return nil
}

func (c *Client) record(ep endpoint, status int, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordAPIRequest(ep.method, ep.pattern, status, d)
	}
}
