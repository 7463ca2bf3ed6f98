package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Адреса источников из эталонного деплоя.
const (
	hitokotoURL  = "https://v1.hitokoto.cn/?encode=json"
	bingBaseURL  = "https://cn.bing.com"
	openMeteoURL = "https://api.open-meteo.com/v1/forecast?latitude=30.24&longitude=120.20&current_weather=true&timezone=Asia%2FShanghai"
)

// fallbackQuote строка на случай недоступности источника цитат.
const fallbackQuote = "> “Stay Hungry, Stay Foolish.”"

func fetchJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// QuoteProvider цитата дня (hitokoto). Единственный источник с запасным
// значением: при сбое возвращает фиксированную строку, а не ошибку.
type QuoteProvider struct {
	url        string
	httpClient *http.Client
}

// NewQuoteProvider создает источник цитаты дня.
func NewQuoteProvider(timeout time.Duration) *QuoteProvider {
	return &QuoteProvider{
		url:        hitokotoURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *QuoteProvider) Name() string { return "quote" }

func (p *QuoteProvider) Fetch(ctx context.Context) (string, error) {
	var decoded struct {
		Hitokoto string `json:"hitokoto"`
		From     string `json:"from"`
	}
	if err := fetchJSON(ctx, p.httpClient, p.url, &decoded); err != nil || decoded.Hitokoto == "" {
		return fallbackQuote, nil
	}
	return fmt.Sprintf("> “%s” — *%s*", decoded.Hitokoto, decoded.From), nil
}

// WallpaperProvider обои дня Bing.
type WallpaperProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewWallpaperProvider создает источник обоев дня.
func NewWallpaperProvider(timeout time.Duration) *WallpaperProvider {
	return &WallpaperProvider{
		baseURL:    bingBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *WallpaperProvider) Name() string { return "wallpaper" }

func (p *WallpaperProvider) Fetch(ctx context.Context) (string, error) {
	var decoded struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	url := p.baseURL + "/HPImageArchive.aspx?format=js&idx=0&n=1"
	if err := fetchJSON(ctx, p.httpClient, url, &decoded); err != nil {
		return "", err
	}
	if len(decoded.Images) == 0 {
		return "", fmt.Errorf("empty image list")
	}
	return fmt.Sprintf("![Daily Photo](%s%s)", p.baseURL, decoded.Images[0].URL), nil
}

// WeatherProvider текущая погода (Open-Meteo, Ханчжоу).
type WeatherProvider struct {
	url        string
	httpClient *http.Client
}

// NewWeatherProvider создает источник погоды.
func NewWeatherProvider(timeout time.Duration) *WeatherProvider {
	return &WeatherProvider{
		url:        openMeteoURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *WeatherProvider) Name() string { return "weather" }

func (p *WeatherProvider) Fetch(ctx context.Context) (string, error) {
	var decoded struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := fetchJSON(ctx, p.httpClient, p.url, &decoded); err != nil {
		return "", err
	}

	emoji := "🌧️"
	switch {
	case decoded.CurrentWeather.WeatherCode < 3:
		emoji = "🌤️"
	case decoded.CurrentWeather.WeatherCode < 50:
		emoji = "☁️"
	}
	return fmt.Sprintf("Weather today: `Hangzhou %s %.1f°C`",
		emoji, decoded.CurrentWeather.Temperature), nil
}
