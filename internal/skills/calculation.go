package skills

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/Mas562/voiceai-assistant/internal/skills/calc"
)

var calcKeywords = []string{"посчитай", "сколько будет", "калькулятор", "вычисли"}

const calcAllowedChars = "0123456789+-*/.() "

// CalculationSkill evaluates simple arithmetic expressions. The
// residual after keyword stripping must contain only digits, operators,
// parentheses and whitespace; evaluation goes through a dedicated
// parser, never a general-purpose evaluator.
type CalculationSkill struct{}

func NewCalculationSkill() *CalculationSkill {
	return &CalculationSkill{}
}

func (s *CalculationSkill) Name() string { return "calculation" }

func (s *CalculationSkill) CanHandle(text string) bool {
	return containsAny(text, calcKeywords)
}

func (s *CalculationSkill) Handle(text string) Result {
	expr := stripKeywords(text, calcKeywords)

	if expr == "" {
		return Result{
			Success:        true,
			Response:       "Какое выражение вы хотите вычислить?",
			Data:           map[string]any{"type": "calculation"},
			ShouldContinue: false,
		}
	}

	// Normalize multiplication glyphs and the decimal comma.
	expr = strings.NewReplacer("x", "*", "х", "*", ",", ".").Replace(expr)

	for _, c := range expr {
		if !strings.ContainsRune(calcAllowedChars, c) {
			return Result{
				Success:        true,
				Response:       "Я могу вычислять только простые математические выражения с цифрами и операторами + - * /",
				Data:           map[string]any{"type": "calculation", "error": "invalid_chars"},
				ShouldContinue: false,
			}
		}
	}

	result, err := calc.Eval(expr)
	if err != nil {
		if errors.Is(err, calc.ErrDivisionByZero) {
			return Result{
				Success:        true,
				Response:       "На ноль делить нельзя!",
				Data:           map[string]any{"type": "calculation", "error": "zero_division"},
				ShouldContinue: false,
			}
		}
		log.Printf("calculation failed: %v", err)
		return noMatch()
	}

	return Result{
		Success:        true,
		Response:       fmt.Sprintf("%s = %s", expr, formatNumber(result)),
		Data:           map[string]any{"type": "calculation", "expression": expr, "result": result},
		ShouldContinue: true,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
