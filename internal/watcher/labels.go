package watcher

import (
	"fmt"

	"fitclub/internal/changefeed"
	"fitclub/internal/domain/users"
)

// subjectPlaceholder is shown when the row carries neither an email nor
// a name.
const subjectPlaceholder = "Неизвестный пользователь"

// roleLabels are the localized display names the admin screens use.
var roleLabels = map[string]string{
	users.RoleAdmin:   "Администратор",
	users.RolePartner: "Партнёр",
	users.RoleSupport: "Поддержка",
	users.RoleUser:    "Пользователь",
}

// roleLabel is the single place an unrecognized stored role value is
// resolved: it always renders as the plain user label.
func roleLabel(role string) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return roleLabels[users.RoleUser]
}

func subject(change changefeed.Change) string {
	if email, ok := change.NewString("email"); ok && email != "" {
		return email
	}
	if name, ok := change.NewString("first_name"); ok && name != "" {
		return name
	}
	return subjectPlaceholder
}

func subjectID(change changefeed.Change) int64 {
	id, ok := change.NewInt64("id")
	if !ok {
		return 0
	}
	return id
}

func roleField() field {
	return field{
		column: "role",
		diff: func(change changefeed.Change) (Transition, AccountNotification, bool) {
			oldRole, _ := change.OldString("role")
			newRole, _ := change.NewString("role")
			if oldRole == newRole {
				return Transition{}, AccountNotification{}, false
			}

			oldLabel := roleLabel(oldRole)
			newLabel := roleLabel(newRole)
			email, _ := change.NewString("email")

			t := Transition{
				Kind:        KindRoleChange,
				Subject:     subject(change),
				OldLabel:    oldLabel,
				NewLabel:    newLabel,
				Description: fmt.Sprintf("Роль изменена: %s → %s", oldLabel, newLabel),
			}
			n := AccountNotification{
				Kind:      KindRoleChange,
				UserID:    subjectID(change),
				UserEmail: email,
				OldRole:   oldRole,
				NewRole:   newRole,
			}
			return t, n, true
		},
	}
}

func blockField() field {
	return field{
		column: "is_blocked",
		diff: func(change changefeed.Change) (Transition, AccountNotification, bool) {
			oldBlocked, _ := change.OldBool("is_blocked")
			newBlocked, _ := change.NewBool("is_blocked")
			if oldBlocked == newBlocked {
				return Transition{}, AccountNotification{}, false
			}

			kind := KindUserUnblocked
			description := "Пользователь разблокирован"
			if newBlocked {
				kind = KindUserBlocked
				description = "Пользователь заблокирован"
			}
			email, _ := change.NewString("email")

			t := Transition{
				Kind:        kind,
				Subject:     subject(change),
				OldLabel:    blockLabel(oldBlocked),
				NewLabel:    blockLabel(newBlocked),
				Description: description,
			}
			n := AccountNotification{
				Kind:      kind,
				UserID:    subjectID(change),
				UserEmail: email,
			}
			return t, n, true
		},
	}
}

func blockLabel(blocked bool) string {
	if blocked {
		return "Заблокирован"
	}
	return "Активен"
}
