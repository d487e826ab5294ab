package mapping

import (
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/models"
)

// ToModelRegister converts a domain Register to its DB shape.
func ToModelRegister(d domain.Register) models.Register {
	return models.Register{
		RegisterID:        d.RegisterID,
		Code:              d.Code,
		Name:              d.Name,
		Description:       d.Description,
		Location:          d.Location,
		Status:            models.RegisterStatus(d.Status),
		ResponsibleUserID: d.ResponsibleUserID,
		LastOpenedAt:      d.LastOpenedAt,
		LastClosingAt:     d.LastClosingAt,
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRegister converts a DB Register row to the domain shape.
func ToDomainRegister(m models.Register) domain.Register {
	return domain.Register{
		RegisterID:        m.RegisterID,
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		Location:          m.Location,
		Status:            domain.RegisterStatus(m.Status),
		ResponsibleUserID: m.ResponsibleUserID,
		LastOpenedAt:      m.LastOpenedAt,
		LastClosingAt:     m.LastClosingAt,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
