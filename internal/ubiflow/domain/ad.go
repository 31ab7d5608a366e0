package domain

// AdParams carries the immutable content of an ad.
type AdParams struct {
	ID          *int
	Reference   string
	Transaction Transaction
	Price       float64
	HousingType int
	Title       string
	Description string
	Pictures    []string
	Portals     []string
}

// DataEntry is one extension attribute of an ad.
type DataEntry struct {
	Key   DataKey
	Value any
}

// Ad is a classified ad owned by the caller. Only the identifier changes
// after construction: it is assigned by the API on first publication.
type Ad struct {
	id          *int
	reference   string
	transaction Transaction
	price       float64
	housingType int
	title       string
	description string
	pictures    []string
	portals     []string

	data      []DataEntry
	dataIndex map[DataKey]int
}

// NewAd builds an ad from its content. Slices are copied.
func NewAd(p AdParams) *Ad {
	ad := &Ad{
		reference:   p.Reference,
		transaction: p.Transaction,
		price:       p.Price,
		housingType: p.HousingType,
		title:       p.Title,
		description: p.Description,
		pictures:    append([]string(nil), p.Pictures...),
		portals:     append([]string(nil), p.Portals...),
		dataIndex:   make(map[DataKey]int),
	}
	if p.ID != nil {
		ad.AssignID(*p.ID)
	}
	return ad
}

// ID returns the server-assigned identifier, if any.
func (a *Ad) ID() (int, bool) {
	if a.id == nil {
		return 0, false
	}
	return *a.id, true
}

// AssignID records the identifier returned by the API.
func (a *Ad) AssignID(id int) {
	a.id = &id
}

func (a *Ad) Reference() string        { return a.reference }
func (a *Ad) Transaction() Transaction { return a.transaction }
func (a *Ad) Price() float64           { return a.price }
func (a *Ad) HousingType() int         { return a.housingType }
func (a *Ad) Title() string            { return a.title }
func (a *Ad) Description() string      { return a.description }

// Pictures returns the picture URLs in publication order.
func (a *Ad) Pictures() []string {
	return append([]string(nil), a.pictures...)
}

// Portals returns the codes of the portals the ad should be selected on.
func (a *Ad) Portals() []string {
	return append([]string(nil), a.portals...)
}

// TargetsPortal reports whether code is one of the ad's portals.
func (a *Ad) TargetsPortal(code string) bool {
	for _, portal := range a.portals {
		if portal == code {
			return true
		}
	}
	return false
}

// SetData sets an extension attribute. Setting an existing key replaces its
// value and keeps its position.
func (a *Ad) SetData(key DataKey, value any) *Ad {
	if a.dataIndex == nil {
		a.dataIndex = make(map[DataKey]int)
	}
	if i, ok := a.dataIndex[key]; ok {
		a.data[i].Value = value
		return a
	}
	a.dataIndex[key] = len(a.data)
	a.data = append(a.data, DataEntry{Key: key, Value: value})
	return a
}

// Data returns the extension attributes in insertion order.
func (a *Ad) Data() []DataEntry {
	return append([]DataEntry(nil), a.data...)
}

// DataValue returns the value of one extension attribute.
func (a *Ad) DataValue(key DataKey) (any, bool) {
	i, ok := a.dataIndex[key]
	if !ok {
		return nil, false
	}
	return a.data[i].Value, true
}
