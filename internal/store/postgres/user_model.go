package postgres

import (
	"database/sql"

	"github.com/goto/datahub/core/opensearch"
	"github.com/lib/pq"
)

const (
	labelPublic        = "public"
	labelCreatorPrefix = "creator-"
	labelMemberPrefix  = "member-"
)

// UserModel is a user row joined with the organizations it belongs to.
type UserModel struct {
	UUID          string         `db:"uuid"`
	Email         sql.NullString `db:"email"`
	Sysadmin      bool           `db:"sysadmin"`
	Organizations pq.StringArray `db:"organizations"`
}

// toAccess derives the permission labels the user may see.
func (u UserModel) toAccess() opensearch.Access {
	if u.Sysadmin {
		return opensearch.Access{
			Unrestricted:   true,
			IncludeDrafts:  true,
			IncludePrivate: true,
		}
	}

	labels := make([]string, 0, len(u.Organizations)+2)
	labels = append(labels, labelPublic, labelCreatorPrefix+u.UUID)
	for _, org := range u.Organizations {
		labels = append(labels, labelMemberPrefix+org)
	}
	return opensearch.Access{
		Labels:         labels,
		IncludePrivate: true,
	}
}
