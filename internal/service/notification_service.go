package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/auth"
	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/mapper"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
)

// ErrNotificationNotFound is returned when a notification is not found
var ErrNotificationNotFound = errors.New("notification not found")

// ErrNotificationNotOwned is returned when trying to access a notification owned by another user
var ErrNotificationNotOwned = errors.New("notification does not belong to current user")

// NotificationService handles in-app notifications and the WhatsApp
// hand-off links the shop uses to nudge people outside the system.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// CreateForUser creates a notification for a specific user
func (s *NotificationService) CreateForUser(
	ctx context.Context,
	userID uuid.UUID,
	notificationType domain.NotificationType,
	title string,
	message string,
	entityType string,
	entityID *uuid.UUID,
) (*domain.NotificationDTO, error) {
	notification := &domain.Notification{
		UserID:     userID,
		Type:       string(notificationType),
		Title:      title,
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
		Read:       false,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	dto := mapper.ToNotificationDTO(notification)
	return &dto, nil
}

// NotifyDepartamento fans a workflow notification out to every active user
// of a department. Failures are logged and skipped so one bad row never
// blocks a status change.
func (s *NotificationService) NotifyDepartamento(
	ctx context.Context,
	departamento domain.Departamento,
	notificationType domain.NotificationType,
	ficha *domain.Ficha,
) {
	users, err := s.userRepo.ListByDepartamento(ctx, departamento)
	if err != nil {
		s.logger.Warn("failed to list department users for notification",
			zap.String("departamento", string(departamento)),
			zap.Error(err),
		)
		return
	}

	title, message := messageFor(notificationType, ficha)
	fichaID := ficha.ID

	for _, user := range users {
		if _, err := s.CreateForUser(ctx, user.ID, notificationType, title, message, "ficha", &fichaID); err != nil {
			s.logger.Warn("failed to notify user",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("departamento notificado",
		zap.String("departamento", string(departamento)),
		zap.String("type", string(notificationType)),
		zap.String("ficha_id", ficha.ID.String()),
		zap.Int("usuarios", len(users)),
	)
}

// NotifyReversal tells the department that owns the restored stage that the
// ficha came back, carrying the operator's justification.
func (s *NotificationService) NotifyReversal(ctx context.Context, ficha *domain.Ficha, restored domain.StatusFicha, justificativa string) {
	departamento, ok := departamentoForStatus(restored)
	if !ok {
		return
	}

	users, err := s.userRepo.ListByDepartamento(ctx, departamento)
	if err != nil {
		s.logger.Warn("failed to list department users for reversal notification",
			zap.String("departamento", string(departamento)),
			zap.Error(err),
		)
		return
	}

	title := fmt.Sprintf("Ficha %s revertida", fichaLabel(ficha))
	message := fmt.Sprintf("A ficha de %s voltou para %s. Justificativa: %s",
		ficha.Cliente, restored.Info().Label, justificativa)
	fichaID := ficha.ID

	for _, user := range users {
		if _, err := s.CreateForUser(ctx, user.ID, domain.NotificationTypeFichaRevertida, title, message, "ficha", &fichaID); err != nil {
			s.logger.Warn("failed to notify user of reversal",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// departamentoForStatus maps a workflow stage to the department working it
func departamentoForStatus(status domain.StatusFicha) (domain.Departamento, bool) {
	switch status {
	case domain.StatusRascunho:
		return domain.DepartamentoTecnico, true
	case domain.StatusAguardandoCotacaoCompras, domain.StatusEmCompras:
		return domain.DepartamentoCompras, true
	case domain.StatusAguardandoOrcamentoComercial, domain.StatusOrcamentoEnviadoCliente,
		domain.StatusOrcamentoAprovadoCliente:
		return domain.DepartamentoComercial, true
	case domain.StatusEmProducao:
		return domain.DepartamentoProducao, true
	}
	return "", false
}

func fichaLabel(ficha *domain.Ficha) string {
	if ficha.NumeroOrcamento != "" {
		return ficha.NumeroOrcamento
	}
	return ficha.NomePeca
}

func messageFor(notificationType domain.NotificationType, ficha *domain.Ficha) (string, string) {
	label := fichaLabel(ficha)
	switch notificationType {
	case domain.NotificationTypeFichaParaCompras:
		return "Nova ficha para cotação",
			fmt.Sprintf("A ficha %s (%s) aguarda cotação de materiais.", label, ficha.Cliente)
	case domain.NotificationTypeFichaParaComercial:
		return "Ficha pronta para orçamento",
			fmt.Sprintf("A ficha %s (%s) teve os materiais cotados e aguarda o orçamento.", label, ficha.Cliente)
	case domain.NotificationTypeOrcamentoAprovado:
		return "Orçamento aprovado pelo cliente",
			fmt.Sprintf("O cliente %s aprovou o orçamento %s.", ficha.Cliente, label)
	case domain.NotificationTypeOrcamentoRejeitado:
		return "Orçamento recusado pelo cliente",
			fmt.Sprintf("O cliente %s recusou o orçamento %s. Revise os valores.", ficha.Cliente, label)
	case domain.NotificationTypeOrcamentoExpirando:
		return "Orçamento sem resposta",
			fmt.Sprintf("O orçamento %s enviado a %s segue sem resposta do cliente.", label, ficha.Cliente)
	}
	return "Atualização de ficha", fmt.Sprintf("A ficha %s foi atualizada.", label)
}

var nonDigits = regexp.MustCompile(`\D`)

// WhatsAppLink builds a wa.me link with a prefilled follow-up message for
// the ficha's contact phone. Returns empty when the record has no phone.
func WhatsAppLink(ficha *domain.Ficha) string {
	digits := nonDigits.ReplaceAllString(ficha.Telefone, "")
	if digits == "" {
		return ""
	}
	// Brazilian numbers without a country code get the 55 prefix
	if len(digits) <= 11 {
		digits = "55" + digits
	}

	text := fmt.Sprintf("Olá %s! Sobre o orçamento %s da peça %s:",
		ficha.Solicitante, fichaLabel(ficha), ficha.NomePeca)

	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}

// ListByUser returns the current user's notifications
func (s *NotificationService) ListByUser(ctx context.Context, page, pageSize int, unreadOnly bool) (*domain.PaginatedResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userCtx.UserID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = mapper.ToNotificationDTO(&notifications[i])
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Items:      dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// MarkAsRead marks one of the current user's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != userCtx.UserID {
		return ErrNotificationNotOwned
	}

	return s.notificationRepo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks every unread notification of the current user as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	return s.notificationRepo.MarkAllAsRead(ctx, userCtx.UserID)
}

// CountUnread returns the unread badge count of the current user
func (s *NotificationService) CountUnread(ctx context.Context) (int, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return 0, ErrUnauthorized
	}

	return s.notificationRepo.CountUnread(ctx, userCtx.UserID)
}
