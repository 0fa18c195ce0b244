package models

type RegisterRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Profession string `json:"profession"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// EmailTask is the payload queued for asynchronous report delivery.
type EmailTask struct {
	ReportID  string `json:"report_id"`
	Recipient string `json:"recipient"`
}
