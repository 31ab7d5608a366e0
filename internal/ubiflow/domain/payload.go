package domain

// statusActive is the only status this service ever sends.
const statusActive = "A"

// AdPayload is the JSON body used to create or update an ad.
type AdPayload struct {
	Reference      string                 `json:"reference"`
	Status         string                 `json:"status"`
	Transaction    TransactionPayload     `json:"transaction"`
	ProductType    ProductTypePayload     `json:"productType"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Data           []DataPayload          `json:"data"`
	MediaSupports  MediaSupportsPayload   `json:"mediaSupports"`
	AdPublications AdPublicationsEnvelope `json:"adPublications"`
}

type TransactionPayload struct {
	Code         string  `json:"code"`
	Price        float64 `json:"price"`
	PrivatePrice bool    `json:"privatePrice"`
}

type ProductTypePayload struct {
	Code int `json:"code"`
}

type DataPayload struct {
	Code  string `json:"code"`
	Value any    `json:"value"`
}

type MediaSupportsPayload struct {
	Pictures []PicturePayload `json:"pictures"`
}

type PicturePayload struct {
	SourceURL string `json:"sourceUrl"`
}

// AdPublicationsEnvelope wraps the publication list in a list of one list,
// which is how the API expects it.
type AdPublicationsEnvelope struct {
	AdPublications [][]AdPublicationPayload `json:"adPublications"`
}

type AdPublicationPayload struct {
	AdvertiserPublication AdvertiserPublicationPayload `json:"advertiserPublication"`
}

type AdvertiserPublicationPayload struct {
	Portal PortalRefPayload `json:"portal"`
}

type PortalRefPayload struct {
	Code string `json:"code"`
}

// Payload serializes the ad for a create or update call.
func (a *Ad) Payload() AdPayload {
	data := make([]DataPayload, 0, len(a.data))
	for _, entry := range a.data {
		data = append(data, DataPayload{Code: entry.Key.Code(), Value: entry.Value})
	}

	pictures := make([]PicturePayload, 0, len(a.pictures))
	for _, url := range a.pictures {
		pictures = append(pictures, PicturePayload{SourceURL: url})
	}

	publications := make([]AdPublicationPayload, 0, len(a.portals))
	for _, code := range a.portals {
		publications = append(publications, AdPublicationPayload{
			AdvertiserPublication: AdvertiserPublicationPayload{Portal: PortalRefPayload{Code: code}},
		})
	}

	return AdPayload{
		Reference: a.reference,
		Status:    statusActive,
		Transaction: TransactionPayload{
			Code:         a.transaction.Code(),
			Price:        a.price,
			PrivatePrice: false,
		},
		ProductType:    ProductTypePayload{Code: a.housingType},
		Title:          a.title,
		Description:    a.description,
		Data:           data,
		MediaSupports:  MediaSupportsPayload{Pictures: pictures},
		AdPublications: AdPublicationsEnvelope{AdPublications: [][]AdPublicationPayload{publications}},
	}
}
