package refstore

import (
	"time"

	"stockcard/internal/core/entity"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
)

// Wire shapes of the reference store. Field names are the store's.

type ref struct {
	ID      id.ID  `json:"id"`
	Libelle string `json:"libelle"`
	Nom     string `json:"nom"`
}

func (r *ref) name() string {
	if r == nil {
		return ""
	}
	if r.Libelle != "" {
		return r.Libelle
	}
	return r.Nom
}

func (r *ref) id() id.ID {
	if r == nil {
		return ""
	}
	return r.ID
}

type inventoryDTO struct {
	InventaireID   id.ID      `json:"inventaireId"`
	NumInventaire  string     `json:"numInventaire"`
	DateInventaire types.Date `json:"dateInventaire"`
	MagasinID      id.ID      `json:"magasinId"`
}

type inventoryLineDTO struct {
	ArticleID        id.ID          `json:"articleId"`
	Article          *ref           `json:"article"`
	QuantitePhysique types.Quantity `json:"quantitePhysique"`
	PrixUnitaire     *types.Money   `json:"prixUnitaire"`
}

type entryDTO struct {
	EntreeID    id.ID      `json:"entreeId"`
	NumEntree   string     `json:"numEntree"`
	DateEntree  types.Date `json:"dateEntree"`
	MagasinID   id.ID      `json:"magasinId"`
	Fournisseur *ref       `json:"fournisseur"`
}

type entryLineDTO struct {
	ArticleID    id.ID          `json:"articleId"`
	Article      *ref           `json:"article"`
	QteE         types.Quantity `json:"qteE"`
	PrixUnitaire *types.Money   `json:"prixUnitaire"`
}

type exitDTO struct {
	SortieID     id.ID      `json:"sortieId"`
	NumSortie    string     `json:"numSortie"`
	DateSortie   types.Date `json:"dateSortie"`
	MagasinID    id.ID      `json:"magasinId"`
	Beneficiaire string     `json:"beneficiaire"`
}

type exitLineDTO struct {
	ArticleID id.ID          `json:"articleId"`
	Article   *ref           `json:"article"`
	QteS      types.Quantity `json:"qteS"`
	PUMP      *types.Money   `json:"pUMP"`
	PrixTotal *types.Money   `json:"prixTotal"`
}

// unitPrice is pUMP, or the line total spread over the quantity when only
// the total was recorded.
func (l exitLineDTO) unitPrice() *types.Money {
	if l.PUMP != nil {
		return l.PUMP
	}
	if l.PrixTotal == nil || l.QteS.IsZero() {
		return nil
	}
	p := l.PrixTotal.Div(l.QteS.Decimal())
	return &p
}

type articleDTO struct {
	ArticleID id.ID          `json:"articleId"`
	Libelle   string         `json:"libelle"`
	Catalogue string         `json:"catalogue"`
	Categorie *ref           `json:"categorie"`
	MagasinID id.ID          `json:"magasinId"`
	Unite     string         `json:"unite"`
	Seuil     types.Quantity `json:"seuil"`
	SeuilMax  types.Quantity `json:"seuilMax"`
}

// lineArticle prefers the flat id and falls back to the nested object.
func lineArticle(flat id.ID, nested *ref) id.ID {
	if !flat.IsNil() {
		return flat
	}
	return nested.id()
}

// header builds a document header; naive dates are read in loc.
func header(docID id.ID, number string, date types.Date, warehouse id.ID, loc *time.Location) entity.Document {
	return entity.Document{ID: docID, Number: number, Date: date.In(loc), WarehouseID: warehouse}
}
