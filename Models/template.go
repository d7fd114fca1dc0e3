package Models

import (
	"gorm.io/gorm"
)

type InspectionTemplate struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	Active      bool   `json:"active" gorm:"default:true"`
	Sequence    int    `json:"sequence" gorm:"default:10"`

	Sections []InspectionSection `json:"sections,omitempty" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

type InspectionSection struct {
	gorm.Model
	TemplateID  uint   `json:"template_id" gorm:"not null;index"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	Sequence    int    `json:"sequence" gorm:"default:10"`

	Items []InspectionTemplateItem `json:"items,omitempty" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

type InspectionTemplateItem struct {
	gorm.Model
	TemplateID uint `json:"template_id" gorm:"not null;index"`
	SectionID  uint `json:"section_id" gorm:"not null;index"`

	Name        string `json:"name" gorm:"size:500;not null"`
	Description string `json:"description" gorm:"type:text"`
	Sequence    int    `json:"sequence" gorm:"default:10"`
	// Denormalized from the owning section so items can be ordered with a
	// single query: (section_sequence, sequence, name).
	SectionSequence int    `json:"section_sequence" gorm:"index"`
	SectionName     string `json:"section_name" gorm:"size:255"`

	IsMandatory           bool `json:"is_mandatory" gorm:"default:true"`
	PhotoRequiredOnBad    bool `json:"photo_required_on_bad" gorm:"default:true"`
	PhotoAllowedOnRegular bool `json:"photo_allowed_on_regular" gorm:"default:true"`

	Instructions string `json:"instructions" gorm:"type:text"`
	Tips         string `json:"tips" gorm:"type:text"`
}

// defaultSections is the canonical pre-operational checklist.
var defaultSections = []struct {
	Name     string
	Sequence int
	Items    []string
}{
	{
		Name:     "SISTEMA ELÉCTRICO",
		Sequence: 10,
		Items: []string{
			"Luces altas y bajas",
			"Luces de posición y giro",
			"Luces de freno y retroceso",
			"Balizas Intermitentes",
			"Alarma acústica de retroceso",
			"Luces de tablero instrumentos",
			"Bocina",
		},
	},
	{
		Name:     "CARROCERÍA Y CHASIS",
		Sequence: 20,
		Items: []string{
			"Chapa y pintura",
			"Parabrisas, limpia parabrisas, cristales y espejos",
			"Paragolpe trasero / delantero",
			"Puertas y seguros",
			"Freno de estacionamiento",
		},
	},
	{
		Name:     "INTERIOR",
		Sequence: 30,
		Items: []string{
			"Instrumental",
			"Levantavidrios, cerraduras",
			"Calefactor / Desempañador",
			"Aire acondicionado",
			"Apoyacabezas",
			"Funcionamiento equipo de radio Am/Fm",
			"Tacógrafo",
		},
	},
	{
		Name:     "ELEMENTOS DE SEGURIDAD",
		Sequence: 40,
		Items: []string{
			"Cinturones de seguridad",
			"Matafuegos",
			"Balizas triángulo",
			"Barra remolque",
			"Botiquín",
			"Arrestallamas",
		},
	},
	{
		Name:     "TREN RODANTE",
		Sequence: 50,
		Items: []string{
			"Cubiertas, llantas y bulones",
			"Presión de los neumáticos",
			"Rueda/s de auxilio",
			"Alineación y balanceo",
			"Llave de ruedas y gato",
		},
	},
	{
		Name:     "LIMPIEZA",
		Sequence: 60,
		Items: []string{
			"Estado general de limpieza",
		},
	},
}

// CreateDefaultItems seeds a template with the canonical sections and
// items. Calling it twice duplicates the sections; callers must guard.
func CreateDefaultItems(db *gorm.DB, templateID uint) error {
	var template InspectionTemplate
	if err := db.First(&template, templateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &NotFoundError{Entity: "template", ID: templateID}
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, sectionData := range defaultSections {
			section := InspectionSection{
				TemplateID: templateID,
				Name:       sectionData.Name,
				Sequence:   sectionData.Sequence,
			}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}

			items := make([]InspectionTemplateItem, 0, len(sectionData.Items))
			for i, itemName := range sectionData.Items {
				items = append(items, InspectionTemplateItem{
					TemplateID:            templateID,
					SectionID:             section.ID,
					Name:                  itemName,
					Sequence:              (i + 1) * 10,
					SectionSequence:       section.Sequence,
					SectionName:           section.Name,
					IsMandatory:           true,
					PhotoRequiredOnBad:    true,
					PhotoAllowedOnRegular: true,
				})
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DuplicateTemplate deep-copies a template with all sections and items.
// The copy is created inactive so it never competes with the active one.
func DuplicateTemplate(db *gorm.DB, templateID uint) (*InspectionTemplate, error) {
	var template InspectionTemplate
	err := db.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC, name ASC")
	}).Preload("Sections.Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC, name ASC")
	}).First(&template, templateID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Entity: "template", ID: templateID}
		}
		return nil, err
	}

	duplicate := InspectionTemplate{
		Name:        template.Name + " (Copy)",
		Description: template.Description,
		Active:      false,
		Sequence:    template.Sequence,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&duplicate).Error; err != nil {
			return err
		}
		for _, section := range template.Sections {
			newSection := InspectionSection{
				TemplateID:  duplicate.ID,
				Name:        section.Name,
				Description: section.Description,
				Sequence:    section.Sequence,
			}
			if err := tx.Create(&newSection).Error; err != nil {
				return err
			}
			for _, item := range section.Items {
				newItem := item
				newItem.Model = gorm.Model{}
				newItem.TemplateID = duplicate.ID
				newItem.SectionID = newSection.ID
				if err := tx.Create(&newItem).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &duplicate, nil
}

// FindActiveTemplate resolves the single active template used to seed new
// inspections.
func FindActiveTemplate(db *gorm.DB) (*InspectionTemplate, error) {
	var template InspectionTemplate
	err := db.Where("active = ?", true).Order("sequence ASC, name ASC").First(&template).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ConfigurationError{Reason: "no active inspection template found, please create one first"}
		}
		return nil, err
	}
	return &template, nil
}

// TemplateItemsInOrder returns every item of a template in display order.
func TemplateItemsInOrder(db *gorm.DB, templateID uint) ([]InspectionTemplateItem, error) {
	var items []InspectionTemplateItem
	err := db.Where("template_id = ?", templateID).
		Order("section_sequence ASC, sequence ASC, name ASC").
		Find(&items).Error
	return items, err
}
