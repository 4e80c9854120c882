package skills

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const DefaultWeatherBaseURL = "http://api.openweathermap.org/data/2.5/weather"

var weatherKeywords = []string{"погода", "температура", "градус", "дождь", "солнце"}

// Known city names, lowercased alias → canonical form. Kept as an
// ordered list so matching precedence is deterministic.
var cityGazetteer = []struct{ alias, name string }{
	{"москва", "Москва"},
	{"питер", "Санкт-Петербург"},
	{"петербург", "Санкт-Петербург"},
	{"спб", "Санкт-Петербург"},
	{"новосибирск", "Новосибирск"},
	{"екатеринбург", "Екатеринбург"},
	{"казань", "Казань"},
	{"нижний новгород", "Нижний Новгород"},
	{"челябинск", "Челябинск"},
	{"самара", "Самара"},
	{"омск", "Омск"},
	{"ростов", "Ростов-на-Дону"},
	{"уфа", "Уфа"},
	{"красноярск", "Красноярск"},
	{"пермь", "Пермь"},
	{"воронеж", "Воронеж"},
	{"волгоград", "Волгоград"},
	{"сочи", "Сочи"},
	{"краснодар", "Краснодар"},
}

var cityPrepositions = []string{"в", "на", "по", "около", "для"}

// Demo-mode temperature ranges per known city, degrees Celsius.
var demoTempRanges = map[string][2]int{
	"москва":          {-10, 5},
	"санкт-петербург": {-8, 3},
	"новосибирск":     {-15, -5},
	"сочи":            {5, 15},
	"казань":          {-7, 2},
	"екатеринбург":    {-12, -3},
}

var demoConditions = []string{"ясно", "облачно", "пасмурно", "небольшой дождь", "снег", "туман"}

// WeatherSkill reports current weather for a city. Without an
// OpenWeatherMap credential it synthesizes a plausible reading keyed by
// the city name and labels the reply as demo mode. The AI model may
// append commentary afterwards.
type WeatherSkill struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	location func() string // session-context fallback city
}

func NewWeatherSkill(apiKey, baseURL string, location func() string) *WeatherSkill {
	if baseURL == "" {
		baseURL = DefaultWeatherBaseURL
	}
	return &WeatherSkill{
		apiKey:   apiKey,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		location: location,
	}
}

func (s *WeatherSkill) Name() string { return "weather" }

func (s *WeatherSkill) CanHandle(text string) bool {
	return containsAny(text, weatherKeywords)
}

func (s *WeatherSkill) Handle(text string) Result {
	city := ExtractCity(text)
	if city == "" && s.location != nil {
		city = s.location()
	}
	if city == "" {
		city = "Москва"
	}

	var response string
	if s.apiKey == "" || s.apiKey == "your_openweather_api_key" {
		response = s.demoWeather(city)
	} else {
		var err error
		response, err = s.fetchWeather(city)
		if err != nil {
			log.Printf("weather request failed: %v", err)
			return Result{Success: false, ShouldContinue: true}
		}
	}

	return Result{
		Success:        true,
		Response:       response,
		Data:           map[string]any{"type": "weather", "city": city},
		ShouldContinue: true,
	}
}

// demoWeather synthesizes a reading deterministically keyed by the
// city, bounded by the per-city ranges.
func (s *WeatherSkill) demoWeather(city string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(city)))
	rng := rand.New(rand.NewSource(int64(h.Sum32())))

	bounds, ok := demoTempRanges[strings.ToLower(city)]
	if !ok {
		bounds = [2]int{-5, 10}
	}
	temp := bounds[0] + rng.Intn(bounds[1]-bounds[0]+1)
	condition := demoConditions[rng.Intn(len(demoConditions))]

	return fmt.Sprintf("В %s сейчас %s, около %d°C. (демо-режим)", city, condition, temp)
}

type weatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (s *WeatherSkill) fetchWeather(city string) (string, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")
	q.Set("lang", "ru")

	resp, err := s.client.Get(s.baseURL + "?" + q.Encode())
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Printf("weather API error: status %d", resp.StatusCode)
		return fmt.Sprintf("Не удалось получить погоду для %s", city), nil
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}
	if len(data.Weather) == 0 {
		return fmt.Sprintf("Не удалось получить погоду для %s", city), nil
	}

	return fmt.Sprintf(
		"Погода в %s:\n"+
			"• Температура: %s°C (ощущается как %s°C)\n"+
			"• %s\n"+
			"• Влажность: %d%%\n"+
			"• Ветер: %s м/с\n"+
			"• %s",
		city,
		formatDegrees(data.Main.Temp),
		formatDegrees(data.Main.FeelsLike),
		capitalize(data.Weather[0].Description),
		data.Main.Humidity,
		formatDegrees(data.Wind.Speed),
		clothingRecommendation(data.Main.Temp),
	), nil
}

// clothingRecommendation picks advice by temperature band.
func clothingRecommendation(temp float64) string {
	switch {
	case temp < -10:
		return "Одевайтесь очень тепло: пуховик, шапка, шарф, перчатки"
	case temp < 0:
		return "Нужна теплая куртка, шапка и шарф"
	case temp < 10:
		return "Рекомендуется куртка или пальто"
	case temp < 20:
		return "Можно надеть кофту или легкую куртку"
	default:
		return "Можно одеваться легко: футболка и шорты"
	}
}

// ExtractCity finds a city mention: known names first, then the word
// following a location preposition.
func ExtractCity(text string) string {
	lower := strings.ToLower(text)
	for _, c := range cityGazetteer {
		if strings.Contains(lower, c.alias) {
			return c.name
		}
	}

	words := strings.Fields(lower)
	for i, w := range words {
		for _, prep := range cityPrepositions {
			if w == prep && i+1 < len(words) {
				candidate := strings.TrimFunc(words[i+1], unicode.IsPunct)
				if candidate != "" {
					return capitalize(candidate)
				}
			}
		}
	}
	return ""
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
