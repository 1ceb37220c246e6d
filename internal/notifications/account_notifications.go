package notifications

import (
	"context"
	"errors"
	"fmt"

	"fitclub/internal/domain/pushtokens"
	"fitclub/internal/mailer"
	"fitclub/internal/watcher"

	"github.com/9ssi7/exponent"
	"go.uber.org/zap"
)

// AccountNotifier implements watcher.Sender: it emails the affected
// user about the transition and, best effort, pushes to their
// registered devices.
type AccountNotifier struct {
	mail   mailer.Client
	push   PushSender
	tokens pushtokens.Store
	logger *zap.SugaredLogger
}

func NewAccountNotifier(mail mailer.Client, push PushSender, tokens pushtokens.Store, logger *zap.SugaredLogger) *AccountNotifier {
	return &AccountNotifier{mail: mail, push: push, tokens: tokens, logger: logger}
}

func (n *AccountNotifier) SendAccountNotification(ctx context.Context, in watcher.AccountNotification) error {
	if in.UserEmail == "" {
		return errors.New("account notification without an email address")
	}

	templateFile, title, body := accountMessage(in)

	// push first, it is best effort and must not depend on SMTP health
	if err := n.sendPush(ctx, in.UserID, title, body, in); err != nil {
		n.logger.Warnw("push notification skipped", "user", in.UserID, "error", err)
	}

	if _, err := n.mail.Send(templateFile, in.UserEmail, in.UserEmail, map[string]string{
		"Username": in.UserEmail,
		"OldRole":  in.OldRole,
		"NewRole":  in.NewRole,
	}); err != nil {
		return fmt.Errorf("send %s email: %w", in.Kind, err)
	}
	return nil
}

func accountMessage(in watcher.AccountNotification) (templateFile, title, body string) {
	switch in.Kind {
	case watcher.KindRoleChange:
		return mailer.RoleChangeTemplate,
			"Роль изменена",
			fmt.Sprintf("Ваша роль изменена: %s → %s", in.OldRole, in.NewRole)
	case watcher.KindUserBlocked:
		return mailer.UserBlockedTemplate,
			"Доступ ограничен",
			"Ваша учётная запись заблокирована"
	case watcher.KindUserUnblocked:
		return mailer.UserUnblockedTemplate,
			"Доступ восстановлен",
			"Ваша учётная запись разблокирована"
	default:
		return mailer.RoleChangeTemplate,
			"Обновление учётной записи",
			"Ваша учётная запись обновлена"
	}
}

func (n *AccountNotifier) sendPush(ctx context.Context, userID int64, title, body string, in watcher.AccountNotification) error {
	if userID == 0 {
		return errors.New("unknown user id")
	}

	tokensMap, err := n.tokens.GetTokensByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	tokens := tokensMap[userID]
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":   string(in.Kind),
				"screen": "account-screen",
			},
		})
	}

	// most users carry one device
	if len(msgs) == 1 {
		_, err = n.push.PublishSingle(ctx, msgs[0])
		return err
	}

	_, err = n.push.Publish(ctx, msgs)
	return err
}
