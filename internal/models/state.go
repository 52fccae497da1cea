package models

import "strconv"

// ChatState keeps the current step of a bot conversation plus whatever
// the flow collected so far. Stored per chat in the state repository.
type ChatState struct {
	ChatID      int64             `json:"chat_id"`
	CurrentStep string            `json:"current_step"`
	TempData    map[string]string `json:"temp_data"`
}

func (s *ChatState) Set(key, value string) {
	if s.TempData == nil {
		s.TempData = make(map[string]string)
	}
	s.TempData[key] = value
}

func (s *ChatState) GetString(key string) string {
	if s.TempData == nil {
		return ""
	}
	return s.TempData[key]
}

func (s *ChatState) GetInt64(key string) int64 {
	if s.TempData == nil {
		return 0
	}
	v, err := strconv.ParseInt(s.TempData[key], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (s *ChatState) GetInt(key string) int {
	return int(s.GetInt64(key))
}

func (s *ChatState) GetFloat(key string) float64 {
	if s.TempData == nil {
		return 0
	}
	v, err := strconv.ParseFloat(s.TempData[key], 64)
	if err != nil {
		return 0
	}
	return v
}
