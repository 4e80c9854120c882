package skills

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeActions records navigation requests instead of touching the OS.
type fakeActions struct {
	urls []string
	apps []App
	err  error
}

func (f *fakeActions) OpenURL(url string) error {
	if f.err != nil {
		return f.err
	}
	f.urls = append(f.urls, url)
	return nil
}

func (f *fakeActions) OpenApp(app App) error {
	if f.err != nil {
		return f.err
	}
	f.apps = append(f.apps, app)
	return nil
}

func newTestRegistry(actions Actions, clear func()) *Registry {
	if clear == nil {
		clear = func() {}
	}
	weather := NewWeatherSkill("", "", func() string { return "Москва" })
	return DefaultRegistry(weather, actions, clear)
}

func TestCheckNoMatchFallsThrough(t *testing.T) {
	r := newTestRegistry(&fakeActions{}, nil)
	res := r.Check("расскажи о теории относительности")
	if res.Success || !res.ShouldContinue {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestTimeSkillIsTerminal(t *testing.T) {
	r := newTestRegistry(&fakeActions{}, nil)
	for _, text := range []string{"который час?", "скажи время", "какая сегодня дата"} {
		res := r.Check(text)
		if !res.Success || res.ShouldContinue {
			t.Fatalf("%q: expected terminal success, got %+v", text, res)
		}
		if res.Response == "" {
			t.Fatalf("%q: empty response", text)
		}
	}
}

func TestTimeSkillFormats(t *testing.T) {
	s := NewTimeSkill()
	s.now = func() time.Time {
		return time.Date(2024, time.March, 5, 14, 30, 45, 0, time.UTC)
	}

	if got := s.Handle("скажи время").Response; got != "Сейчас 14:30:45" {
		t.Fatalf("time reply: %q", got)
	}
	if got := s.Handle("какая дата").Response; got != "Сегодня 05 марта 2024 года, вторник" {
		t.Fatalf("date reply: %q", got)
	}
	if got := s.Handle("сколько времени").Response; got != "Сейчас 14:30, 05.03.2024" {
		t.Fatalf("default reply: %q", got)
	}
}

func TestCalculationSkill(t *testing.T) {
	r := newTestRegistry(&fakeActions{}, nil)

	res := r.Check("посчитай 2+2")
	if !res.Success || !res.ShouldContinue {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Response != "2+2 = 4" {
		t.Fatalf("unexpected response: %q", res.Response)
	}

	res = r.Check("посчитай 5/0")
	if !res.Success || res.ShouldContinue {
		t.Fatalf("zero division must be terminal: %+v", res)
	}
	if res.Response != "На ноль делить нельзя!" {
		t.Fatalf("unexpected response: %q", res.Response)
	}

	res = r.Check("посчитай площадь круга радиуса пять")
	if res.ShouldContinue {
		t.Fatalf("invalid chars must be terminal: %+v", res)
	}
	if !strings.Contains(res.Response, "только простые математические выражения") {
		t.Fatalf("unexpected response: %q", res.Response)
	}

	// Decimal comma and multiplication glyphs are normalized.
	res = r.Check("посчитай 1,5 х 2")
	if res.Response != "1.5 * 2 = 3" {
		t.Fatalf("unexpected response: %q", res.Response)
	}
}

func TestWebSkill(t *testing.T) {
	fa := &fakeActions{}
	r := newTestRegistry(fa, nil)

	res := r.Check("найди рецепт борща")
	if !res.Success || !res.ShouldContinue {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(fa.urls) != 1 || !strings.Contains(fa.urls[0], "google.com/search") {
		t.Fatalf("unexpected navigation: %v", fa.urls)
	}

	fa.urls = nil
	res = r.Check("поищи на ютуб котиков")
	if len(fa.urls) != 1 || !strings.Contains(fa.urls[0], "youtube.com/results") {
		t.Fatalf("unexpected navigation: %v", fa.urls)
	}
	if !strings.Contains(res.Response, "YouTube") {
		t.Fatalf("unexpected response: %q", res.Response)
	}
}

func TestWebSkillEmptyQueryAsksBack(t *testing.T) {
	fa := &fakeActions{}
	r := newTestRegistry(fa, nil)

	res := r.Check("найди")
	if !res.Success || res.ShouldContinue {
		t.Fatalf("empty query must be terminal: %+v", res)
	}
	if res.Response != "Что именно вы хотите найти?" {
		t.Fatalf("unexpected response: %q", res.Response)
	}
	if len(fa.urls) != 0 {
		t.Fatalf("no navigation expected, got %v", fa.urls)
	}
}

func TestSystemSkill(t *testing.T) {
	fa := &fakeActions{}
	r := newTestRegistry(fa, nil)

	res := r.Check("открой калькулятор")
	if !res.Success || res.Response != "Я запустил калькулятор." {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(fa.apps) != 1 || fa.apps[0] != AppCalculator {
		t.Fatalf("unexpected app launches: %v", fa.apps)
	}

	res = r.Check("открой браузер")
	if !res.Success || len(fa.urls) != 1 {
		t.Fatalf("browser launch missing: %+v urls=%v", res, fa.urls)
	}

	res = r.Check("выключи компьютер")
	if !res.Success || !strings.Contains(res.Response, "подтверждения вручную") {
		t.Fatalf("unexpected shutdown result: %+v", res)
	}

	// Unmatched combination falls through to the model.
	res = r.Check("закрой глаза")
	if res.Success {
		t.Fatalf("unexpected match: %+v", res)
	}
}

func TestSystemSkillActionFailureFallsThrough(t *testing.T) {
	fa := &fakeActions{err: fmt.Errorf("no display")}
	r := newTestRegistry(fa, nil)

	res := r.Check("открой браузер")
	if res.Success || !res.ShouldContinue {
		t.Fatalf("action failure must fall through: %+v", res)
	}
}

func TestEntertainmentSkill(t *testing.T) {
	fa := &fakeActions{}
	r := newTestRegistry(fa, nil)

	res := r.Check("расскажи анекдот")
	if !res.Success || res.Response == "" || !res.ShouldContinue {
		t.Fatalf("unexpected joke result: %+v", res)
	}

	res = r.Check("включи музыку")
	if !res.Success || len(fa.urls) != 1 || !strings.Contains(fa.urls[0], "youtube") {
		t.Fatalf("unexpected music result: %+v urls=%v", res, fa.urls)
	}
}

func TestNoteAndReminderAreStubbed(t *testing.T) {
	r := newTestRegistry(&fakeActions{}, nil)

	res := r.Check("запомни номер квартиры")
	if !res.Success || !res.ShouldContinue {
		t.Fatalf("unexpected note result: %+v", res)
	}
	res = r.Check("напомни про встречу")
	if !res.Success || !res.ShouldContinue {
		t.Fatalf("unexpected reminder result: %+v", res)
	}
}

func TestClearHistorySkill(t *testing.T) {
	cleared := false
	r := newTestRegistry(&fakeActions{}, func() { cleared = true })

	res := r.Check("очисти историю")
	if !res.Success || res.ShouldContinue {
		t.Fatalf("clear history must be terminal: %+v", res)
	}
	if !cleared {
		t.Fatalf("clear callback not invoked")
	}
}

func TestMatcherOrderIsDeterministic(t *testing.T) {
	fa := &fakeActions{}
	r := newTestRegistry(fa, nil)

	// "открой браузер" carries both a system and a web keyword; the
	// system skill is registered earlier and must win.
	res := r.Check("открой браузер")
	if res.Data["type"] != "system" {
		t.Fatalf("expected system skill to win, got %+v", res)
	}
}

func TestWeatherSkillDemoMode(t *testing.T) {
	s := NewWeatherSkill("", "", func() string { return "Москва" })

	res := s.Handle("какая погода в Сочи?")
	if !res.Success || !res.ShouldContinue {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Response, "Сочи") || !strings.Contains(res.Response, "демо-режим") {
		t.Fatalf("unexpected response: %q", res.Response)
	}

	// Demo readings are deterministic per city.
	again := s.Handle("какая погода в Сочи?")
	if res.Response != again.Response {
		t.Fatalf("demo weather not deterministic: %q vs %q", res.Response, again.Response)
	}
}

func TestWeatherSkillContextFallbackCity(t *testing.T) {
	s := NewWeatherSkill("", "", func() string { return "Казань" })

	res := s.Handle("какая сегодня погода?")
	if !strings.Contains(res.Response, "Казань") {
		t.Fatalf("expected context city, got %q", res.Response)
	}
}

func TestWeatherSkillRealMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "Москва" {
			t.Errorf("q = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"main": {"temp": -3.5, "feels_like": -8.1, "humidity": 85},
			"weather": [{"description": "небольшой снег"}],
			"wind": {"speed": 4.2}
		}`))
	}))
	defer srv.Close()

	s := NewWeatherSkill("test-weather-key", srv.URL, func() string { return "Москва" })
	res := s.Handle("какая погода?")
	if !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
	for _, want := range []string{
		"Погода в Москва",
		"-3.5°C",
		"ощущается как -8.1°C",
		"Небольшой снег",
		"Влажность: 85%",
		"Ветер: 4.2 м/с",
		"Нужна теплая куртка",
	} {
		if !strings.Contains(res.Response, want) {
			t.Fatalf("response missing %q:\n%s", want, res.Response)
		}
	}
}

func TestExtractCity(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"погода в питере", "Санкт-Петербург"},
		{"какая погода в Казань", "Казань"},
		{"температура в новосибирске сегодня", "Новосибирск"},
		{"погода в урюпинске", "Урюпинске"},
		{"какая погода", ""},
	}
	for _, tc := range cases {
		if got := ExtractCity(tc.text); got != tc.want {
			t.Fatalf("ExtractCity(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
