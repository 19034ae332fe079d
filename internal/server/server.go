package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shouni/go-blog-clip/pkg/extract"
	"github.com/shouni/go-blog-clip/pkg/urlnorm"
)

// ----------------------------------------------------------------------
// HTTP境界層: 抽出エンジンを JSON API として公開する薄いラッパー
// ----------------------------------------------------------------------

// DefaultOverallTimeout は1リクエストの抽出処理全体に許す時間です。
// ページ取得タイムアウト (20秒) に解析・変形の余裕を足した値です。
const DefaultOverallTimeout = 40 * time.Second

// Server は Extractor を HTTP で公開します。抽出の状態は一切持たず、
// 各リクエストが独立したツリーを専有するため、同時リクエストに安全です。
type Server struct {
	extractor      *extract.Extractor
	logger         zerolog.Logger
	overallTimeout time.Duration
}

// New は Server を初期化します。
func New(extractor *extract.Extractor, logger zerolog.Logger, overallTimeout time.Duration) *Server {
	if overallTimeout <= 0 {
		overallTimeout = DefaultOverallTimeout
	}
	return &Server{
		extractor:      extractor,
		logger:         logger,
		overallTimeout: overallTimeout,
	}
}

// scrapeRequest は POST /scrape-blog のリクエストボディです。
type scrapeRequest struct {
	URL string `json:"url"`
}

// Handler はルーティング済みの http.Handler を返します。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/scrape-blog", s.handleScrape)
	mux.HandleFunc("/healthz", s.handleHealth)
	return allowCORS(mux)
}

// allowCORS はブラウザの公開クライアントから叩けるよう全オリジンを許可します。
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleScrape は1ページ分の抽出を実行します。
// 部分的な結果は返しません。成功時は全フィールドが揃い、
// 失敗時は分類に応じたステータスだけを返します。
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	started := time.Now()

	// 1. 入力の検証 (InputError はここで打ち切り)
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "Missing 'url' field", http.StatusBadRequest)
		return
	}
	if _, ok := urlnorm.Normalize(req.URL); !ok {
		http.Error(w, "Invalid 'url' field", http.StatusBadRequest)
		return
	}

	// 2. 抽出パイプラインの実行
	ctx, cancel := context.WithTimeout(r.Context(), s.overallTimeout)
	defer cancel()

	result, err := s.extractor.FetchAndClip(ctx, req.URL)
	if err != nil {
		status, message := statusFor(err)
		if status == http.StatusInternalServerError {
			// 予期しない内部エラー: スタックは漏らさず、文脈付きでログに残す
			s.logger.Error().Err(err).Str("url", req.URL).Msg("scrape failed")
		} else {
			s.logger.Warn().Err(err).Str("url", req.URL).Int("status", status).Msg("scrape rejected")
		}
		http.Error(w, message, status)
		return
	}

	s.logger.Info().
		Str("url", req.URL).
		Int("images", len(result.Images)).
		Dur("elapsed", time.Since(started)).
		Msg("scrape ok")

	// 3. 結果の出力
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error().Err(err).Str("url", req.URL).Msg("response encode failed")
	}
}

// statusFor はエラー分類をHTTPステータスと外向きメッセージへ写像します。
// 取得エラー (TransportError)・抽出エラー (ErrNoContent)・その他の内部障害を区別します。
func statusFor(err error) (int, string) {
	var transport *extract.TransportError
	switch {
	case errors.Is(err, extract.ErrNoContent):
		return http.StatusUnprocessableEntity, "Could not extract blog content"
	case errors.As(err, &transport):
		return http.StatusBadGateway, "Could not fetch the source page"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
