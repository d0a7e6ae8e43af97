package dto

import "buildhub-state/internal/entity"

type NotificationRequest struct {
	Type     entity.NotificationType `json:"type" validate:"omitempty,oneof=success error warning info"`
	Title    string                  `json:"title" validate:"required,max=120"`
	Message  string                  `json:"message" validate:"max=1000"`
	Duration int                     `json:"duration" validate:"gte=0"`
}

type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type SidebarRequest struct {
	Open *bool `json:"open"`
}

type ModalRequest struct {
	Modal string `json:"modal" validate:"required,oneof=login signup"`
}
