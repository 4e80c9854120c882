package skills

// DefaultRegistry wires the built-in skills in their fixed priority
// order. Order matters: overlapping keywords (e.g. "браузер" in both
// the system and web sets) resolve to the earlier skill.
func DefaultRegistry(weather *WeatherSkill, actions Actions, clearHistory func()) *Registry {
	return NewRegistry(
		NewTimeSkill(),
		weather,
		NewSystemSkill(actions),
		NewWebSkill(actions),
		NewCalculationSkill(),
		NewEntertainmentSkill(actions),
		NewNoteSkill(),
		NewReminderSkill(),
		NewClearHistorySkill(clearHistory),
	)
}
