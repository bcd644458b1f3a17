package models

import "time"

type Message struct {
	ID             string    `json:"id" db:"id"`
	BatchID        string    `json:"batch_id" db:"batch_id"`
	TrainerName    string    `json:"trainer_name" db:"trainer_name"`
	MessageContent string    `json:"message_content" db:"message_content"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	ReadBy         []string  `json:"read_by" db:"read_by"`
}

func (m *Message) IsReadBy(username string) bool {
	for _, u := range m.ReadBy {
		if u == username {
			return true
		}
	}
	return false
}
