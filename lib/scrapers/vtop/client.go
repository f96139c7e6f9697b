// Package vtop logs into the university portal and scrapes its pages
// into typed records. Each Client owns a private cookie jar so that
// concurrent sessions for different students never share state.
package vtop

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
	"vtopassist/lib/captcha"
	"vtopassist/lib/retry"
	"vtopassist/lib/telemetry"
	"vtopassist/lib/timezone"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/vtop")

const (
	// maxLoginAttempts bounds full login rounds, each ending in a
	// credential POST.
	maxLoginAttempts = 3
	// maxCaptchaRefreshes bounds how often the pre-login page is
	// re-requested waiting for the captcha widget to show up.
	maxCaptchaRefreshes = 10

	loginBackoff = time.Second
)

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	// pacer spaces requests out so the portal's throttle never
	// triggers. Requests block on it rather than failing.
	pacer *rate.Limiter

	authMu sync.RWMutex
	auth   AuthContext

	log       *slog.Logger
	sampleDir string
}

type ClientOptions struct {
	BaseUrl string
	// SessionId tags every log line emitted by this client.
	SessionId string
	// CaptchaSampleDir, when set, collects every captcha image the
	// client sees. The samples feed model retraining.
	CaptchaSampleDir string
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.9")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/vtop/http")

	c := &Client{
		BaseUrl:   baseUrl,
		Http:      client,
		pacer:     rate.NewLimiter(rate.Every(time.Second/2), 1),
		log:       telemetry.SessionLogger(opts.SessionId),
		sampleDir: opts.CaptchaSampleDir,
	}
	// Every outgoing request waits its turn on the pacer.
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return c.pacer.Wait(req.Context())
	})
	return c, nil
}

// Auth returns the captured auth context. Safe to call while a
// re-login is rewriting it on another goroutine.
func (c *Client) Auth() AuthContext {
	c.authMu.RLock()
	defer c.authMu.RUnlock()
	return c.auth
}

// SetAuth replaces the auth context wholesale.
func (c *Client) SetAuth(auth AuthContext) {
	c.authMu.Lock()
	c.auth = auth
	c.authMu.Unlock()
}

// Invalidate drops the captured auth context, typically after the
// portal starts answering with login redirects. A following Login
// mints a fresh one.
func (c *Client) Invalidate() {
	c.SetAuth(AuthContext{})
}

// Close drops the session's credentials and connections. The client
// must not be reused afterwards.
func (c *Client) Close() {
	c.SetAuth(AuthContext{})
	c.Http.GetClient().CloseIdleConnections()
}

func extractCsrf(doc *goquery.Document) string {
	token := doc.Find(`meta[name="_csrf"]`).AttrOr("content", "")
	if token == "" {
		token = doc.Find(`input[name="_csrf"]`).AttrOr("value", "")
	}
	return token
}

var authorizedIdRegex = regexp.MustCompile(`\b\d{2}[A-Z]{3}\d{4}\b`)

// Login runs the full authentication flow: open the portal, wait for
// the captcha to render, guess it, then POST credentials. A rejected
// guess restarts the whole round, up to maxLoginAttempts rounds.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	if err := rateGate.check(timezone.Now()); err != nil {
		return err
	}

	err := retry.Do(ctx, retry.Policy{
		MaxAttempts: maxLoginAttempts,
		Backoff:     loginBackoff,
	}, func(ctx context.Context) error {
		return c.loginOnce(ctx, username, password)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		// Exhausted captcha budgets surface as the typed login failure,
		// transport and throttling problems pass through untouched.
		if errors.Is(err, ErrCaptchaRejected) || errors.Is(err, ErrCaptchaNotFound) {
			return fmt.Errorf("%w: %w", ErrLoginFailed, err)
		}
		return err
	}
	return nil
}

func (c *Client) loginOnce(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:loginOnce")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/vtop/open/page")
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return err
	}
	csrf := extractCsrf(doc)
	if csrf == "" {
		return retry.Stop(fmt.Errorf("%w: open page carries no csrf token", ErrLoginFailed))
	}

	csrf, captchaImage, err := c.awaitCaptcha(ctx, csrf)
	if err != nil {
		return err
	}
	c.saveCaptchaSample(captchaImage)

	guess, err := captcha.Solve(captchaImage)
	if err != nil {
		return err
	}
	c.log.Debug("submitting captcha guess", "guess", guess)

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"_csrf":      csrf,
			"username":   username,
			"password":   password,
			"captchaStr": guess,
		}).
		Post("/vtop/login")
	if err != nil {
		return err
	}
	if res.StatusCode() == 403 {
		reset := resetTime(res.Header(), timezone.Now())
		rateGate.arm(reset)
		return retry.Stop(&RateLimitedError{ResetAt: reset})
	}

	// The portal answers the credential POST with redirects, the final
	// landing path is the only reliable verdict.
	landed := res.RawResponse.Request.URL.Path
	switch {
	case strings.Contains(landed, "/vtop/login/error"):
		c.log.Info("captcha guess rejected", "guess", guess)
		return ErrCaptchaRejected
	case strings.Contains(landed, "/vtop/content"), strings.Contains(landed, "/vtop/student"):
		return c.captureAuth(ctx)
	default:
		span.SetStatus(codes.Error, "ambiguous landing page")
		return retry.Stop(fmt.Errorf("%w: landed on unexpected page %q", ErrLoginFailed, landed))
	}
}

// awaitCaptcha re-requests the pre-login page until the captcha image
// renders. Each refresh rotates the csrf token, the latest one is
// returned alongside the image bytes.
func (c *Client) awaitCaptcha(ctx context.Context, csrf string) (string, []byte, error) {
	var imageBytes []byte
	err := retry.Do(ctx, retry.Policy{MaxAttempts: maxCaptchaRefreshes}, func(ctx context.Context) error {
		res, err := c.Http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"_csrf": csrf,
				"flag":  "VTOP",
			}).
			Post("/vtop/prelogin/setup")
		if err != nil {
			return retry.Stop(err)
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err != nil {
			return retry.Stop(err)
		}
		if token := extractCsrf(doc); token != "" {
			csrf = token
		}

		src := doc.Find("img.form-control.img-fluid.bg-light.border-0").AttrOr("src", "")
		if !strings.HasPrefix(src, "data:image") {
			return ErrCaptchaNotFound
		}
		_, payload, found := strings.Cut(src, "base64,")
		if !found {
			return ErrCaptchaNotFound
		}
		imageBytes, err = base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return fmt.Errorf("%w: undecodable image payload: %v", ErrCaptchaNotFound, err)
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return csrf, imageBytes, nil
}

// captureAuth scrapes the landing page for the csrf token and the
// student registration number every authenticated POST must echo.
func (c *Client) captureAuth(ctx context.Context) error {
	res, err := c.Http.R().
		SetContext(ctx).
		Get("/vtop/content")
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return err
	}

	auth := AuthContext{
		CsrfToken:    extractCsrf(doc),
		AuthorizedID: authorizedIdRegex.FindString(string(res.Body())),
	}
	if !auth.Valid() {
		return retry.Stop(fmt.Errorf("%w: landing page carries no auth context", ErrLoginFailed))
	}
	c.SetAuth(auth)
	c.log.Info("logged in", "authorized_id", auth.AuthorizedID)
	return nil
}

// postAuthenticated issues the form POST shape shared by every
// authenticated page: csrf token, registration number and the portal's
// odd "x" date field, plus the ajax headers it insists on.
func (c *Client) postAuthenticated(ctx context.Context, path string, form map[string]string) (*resty.Response, error) {
	auth := c.Auth()
	if !auth.Valid() {
		return nil, fmt.Errorf("%w: not logged in", ErrLoginFailed)
	}
	if err := rateGate.check(timezone.Now()); err != nil {
		return nil, err
	}

	data := map[string]string{
		"_csrf":        auth.CsrfToken,
		"authorizedID": auth.AuthorizedID,
		"x":            time.Now().UTC().Format(time.UnixDate),
	}
	for k, v := range form {
		data[k] = v
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("referer", c.BaseUrl.JoinPath("/vtop/content").String()).
		SetHeader("x-requested-with", "XMLHttpRequest").
		SetFormData(data).
		Post(path)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == 403 {
		reset := resetTime(res.Header(), timezone.Now())
		rateGate.arm(reset)
		return nil, &RateLimitedError{ResetAt: reset}
	}
	return res, nil
}

func (c *Client) saveCaptchaSample(imageBytes []byte) {
	if c.sampleDir == "" {
		return
	}
	name := fmt.Sprintf("captcha-%d.png", time.Now().UnixNano())
	err := os.WriteFile(filepath.Join(c.sampleDir, name), imageBytes, 0644)
	if err != nil {
		c.log.Warn("failed to save captcha sample", "err", err)
	}
}
