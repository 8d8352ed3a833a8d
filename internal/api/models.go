package api

// Row is one GoogleAdsRow of a search response. Only the resources selected by
// the ads report are modelled.
type Row struct {
	AdGroup   AdGroup   `json:"adGroup"`
	AdGroupAd AdGroupAd `json:"adGroupAd"`
}

type AdGroup struct {
	ResourceName string `json:"resourceName,omitempty"`
	ID           int64  `json:"id,string"`
}

type AdGroupAd struct {
	ResourceName string `json:"resourceName,omitempty"`
	Status       string `json:"status"`
	Ad           Ad     `json:"ad"`
}

// Ad holds at most one populated creative variant. Use the accessors rather
// than the pointer fields.
type Ad struct {
	ResourceName       string                  `json:"resourceName,omitempty"`
	ID                 int64                   `json:"id,string"`
	Type               string                  `json:"type,omitempty"`
	ExpandedTextAd     *ExpandedTextAdInfo     `json:"expandedTextAd,omitempty"`
	ResponsiveSearchAd *ResponsiveSearchAdInfo `json:"responsiveSearchAd,omitempty"`
}

type ExpandedTextAdInfo struct {
	HeadlinePart1 string `json:"headlinePart1"`
	HeadlinePart2 string `json:"headlinePart2"`
}

type AdTextAsset struct {
	Text string `json:"text"`
}

type ResponsiveSearchAdInfo struct {
	Headlines []AdTextAsset `json:"headlines,omitempty"`
}

// ExpandedText returns the expanded text ad variant and whether the ad has one.
func (a Ad) ExpandedText() (ExpandedTextAdInfo, bool) {
	if a.ExpandedTextAd == nil {
		return ExpandedTextAdInfo{}, false
	}
	return *a.ExpandedTextAd, true
}

// ResponsiveSearch returns the responsive search ad variant and whether the ad has one.
func (a Ad) ResponsiveSearch() (ResponsiveSearchAdInfo, bool) {
	if a.ResponsiveSearchAd == nil {
		return ResponsiveSearchAdInfo{}, false
	}
	return *a.ResponsiveSearchAd, true
}

type searchRequest struct {
	Query     string `json:"query"`
	PageSize  int    `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type searchResponse struct {
	Results       []Row  `json:"results"`
	NextPageToken string `json:"nextPageToken"`
}
