package models

import "time"

type Receipt struct {
	ID            string    `firestore:"id" json:"id"`
	TransactionID string    `firestore:"transactionId" json:"transactionId"`
	Amount        string    `firestore:"amount" json:"amount"`
	Network       string    `firestore:"network" json:"network"`
	PayTo         string    `firestore:"payTo" json:"payTo"`
	Question      string    `firestore:"question" json:"question"`
	Model         string    `firestore:"model" json:"model"`
	AnswerChars   int       `firestore:"answerChars" json:"answerChars"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
}
