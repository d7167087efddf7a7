package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record kinds, used by NotFoundError and the schema resources.
const (
	RecordCallsign  = "callsign"
	RecordDXCC      = "dxcc"
	RecordBiography = "biography"
	RecordSession   = "session"
)

// subExpLayout is the layout of the SubExp and GMTime session fields,
// e.g. "Wed Jan  1 12:34:03 2025".
const subExpLayout = "Mon Jan _2 15:04:05 2006"

// SessionInfo is the session state reported by the server. Key is the opaque
// session token; the other fields are refreshed on every response.
type SessionInfo struct {
	Key string `json:"key"`
	// Count is the number of lookups performed by this account today.
	Count *int `json:"count,omitempty"`
	// SubExp is the raw subscription expiry, or "non-subscriber".
	SubExp string `json:"sub_exp,omitempty"`
	// SubExpires is SubExp parsed; nil for non-subscribers or unknown formats.
	SubExpires *time.Time `json:"sub_expires,omitempty"`
	GMTime     string     `json:"gm_time,omitempty"`
	Message    string     `json:"message,omitempty"`
	ObtainedAt time.Time  `json:"obtained_at"`
}

// Subscriber reports whether the account has an active subscription as of now.
func (s SessionInfo) Subscriber(now time.Time) bool {
	return s.SubExpires != nil && now.Before(*s.SubExpires)
}

func parseSubExp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "non-subscriber") {
		return nil
	}
	t, err := time.Parse(subExpLayout, strings.Join(strings.Fields(raw), " "))
	if err != nil {
		return nil
	}
	return &t
}

// Callsign is a callsign record.
type Callsign struct {
	Call      string   `xml:"call" json:"call"`
	XRef      string   `xml:"xref" json:"xref,omitempty"`
	Aliases   string   `xml:"aliases" json:"aliases,omitempty"`
	DXCC      int      `xml:"dxcc" json:"dxcc,omitempty"`
	FirstName string   `xml:"fname" json:"fname,omitempty"`
	LastName  string   `xml:"name" json:"name,omitempty"`
	Addr1     string   `xml:"addr1" json:"addr1,omitempty"`
	Addr2     string   `xml:"addr2" json:"addr2,omitempty"`
	State     string   `xml:"state" json:"state,omitempty"`
	Zip       string   `xml:"zip" json:"zip,omitempty"`
	Country   string   `xml:"country" json:"country,omitempty"`
	CCode     int      `xml:"ccode" json:"ccode,omitempty"`
	Lat       *float64 `xml:"lat" json:"lat,omitempty"`
	Lon       *float64 `xml:"lon" json:"lon,omitempty"`
	Grid      string   `xml:"grid" json:"grid,omitempty"`
	County    string   `xml:"county" json:"county,omitempty"`
	FIPS      string   `xml:"fips" json:"fips,omitempty"`
	Land      string   `xml:"land" json:"land,omitempty"`
	EfDate    string   `xml:"efdate" json:"efdate,omitempty"`
	ExpDate   string   `xml:"expdate" json:"expdate,omitempty"`
	PrevCall  string   `xml:"p_call" json:"p_call,omitempty"`
	Class     string   `xml:"class" json:"class,omitempty"`
	Codes     string   `xml:"codes" json:"codes,omitempty"`
	QSLMgr    string   `xml:"qslmgr" json:"qslmgr,omitempty"`
	Email     string   `xml:"email" json:"email,omitempty"`
	URL       string   `xml:"url" json:"url,omitempty"`
	Views     int      `xml:"u_views" json:"u_views,omitempty"`
	Bio       string   `xml:"bio" json:"bio,omitempty"`
	BioDate   string   `xml:"biodate" json:"biodate,omitempty"`
	Image     string   `xml:"image" json:"image,omitempty"`
	ImageInfo string   `xml:"imageinfo" json:"imageinfo,omitempty"`
	Serial    int      `xml:"serial" json:"serial,omitempty"`
	ModDate   string   `xml:"moddate" json:"moddate,omitempty"`
	MSA       string   `xml:"MSA" json:"msa,omitempty"`
	AreaCode  string   `xml:"AreaCode" json:"area_code,omitempty"`
	TimeZone  string   `xml:"TimeZone" json:"time_zone,omitempty"`
	GMTOffset string   `xml:"GMTOffset" json:"gmt_offset,omitempty"`
	DST       string   `xml:"DST" json:"dst,omitempty"`
	EQSL      string   `xml:"eqsl" json:"eqsl,omitempty"`
	MQSL      string   `xml:"mqsl" json:"mqsl,omitempty"`
	CQZone    int      `xml:"cqzone" json:"cqzone,omitempty"`
	ITUZone   int      `xml:"ituzone" json:"ituzone,omitempty"`
	Born      int      `xml:"born" json:"born,omitempty"`
	User      string   `xml:"user" json:"user,omitempty"`
	LoTW      string   `xml:"lotw" json:"lotw,omitempty"`
	IOTA      string   `xml:"iota" json:"iota,omitempty"`
	GeoLoc    string   `xml:"geoloc" json:"geoloc,omitempty"`
	Attn      string   `xml:"attn" json:"attn,omitempty"`
	Nickname  string   `xml:"nickname" json:"nickname,omitempty"`
	NameFmt   string   `xml:"name_fmt" json:"name_fmt,omitempty"`
}

// FullName joins the first and last name, or returns whichever is set.
func (c *Callsign) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Coordinates returns the latitude and longitude when both are present.
func (c *Callsign) Coordinates() (lat, lon float64, ok bool) {
	return coordinates(c.Lat, c.Lon)
}

// AcceptsEQSL reports the eqsl flag. ok is false when the record omits it.
func (c *Callsign) AcceptsEQSL() (accepts, ok bool) {
	return yesNo(c.EQSL)
}

// ReturnsPaperQSL reports the mqsl flag. ok is false when the record omits it.
func (c *Callsign) ReturnsPaperQSL() (returns, ok bool) {
	return yesNo(c.MQSL)
}

// AcceptsLoTW reports the lotw flag. ok is false when the record omits it.
func (c *Callsign) AcceptsLoTW() (accepts, ok bool) {
	return yesNo(c.LoTW)
}

// DXCC is a DXCC entity record.
type DXCC struct {
	Code      int      `xml:"dxcc" json:"dxcc"`
	CC        string   `xml:"cc" json:"cc,omitempty"`
	CCC       string   `xml:"ccc" json:"ccc,omitempty"`
	Name      string   `xml:"name" json:"name"`
	Continent string   `xml:"continent" json:"continent,omitempty"`
	ITUZone   int      `xml:"ituzone" json:"ituzone,omitempty"`
	CQZone    int      `xml:"cqzone" json:"cqzone,omitempty"`
	Timezone  string   `xml:"timezone" json:"timezone,omitempty"`
	Lat       *float64 `xml:"lat" json:"lat,omitempty"`
	Lon       *float64 `xml:"lon" json:"lon,omitempty"`
	Notes     string   `xml:"notes" json:"notes,omitempty"`
}

// Coordinates returns the approximate center of the entity when both
// coordinates are present.
func (d *DXCC) Coordinates() (lat, lon float64, ok bool) {
	return coordinates(d.Lat, d.Lon)
}

// TimezoneHours parses Timezone as an hour offset. Three or more digits are
// read as hours and minutes: "545" is 5.75 and "-330" is -3.5.
func (d *DXCC) TimezoneHours() (float64, bool) {
	tz := strings.TrimSpace(d.Timezone)
	if tz == "" {
		return 0, false
	}
	sign := 1.0
	switch tz[0] {
	case '-':
		sign, tz = -1, tz[1:]
	case '+':
		tz = tz[1:]
	}
	if len(tz) >= 3 && !strings.ContainsAny(tz, ".:") {
		hours, herr := strconv.Atoi(tz[:len(tz)-2])
		minutes, merr := strconv.Atoi(tz[len(tz)-2:])
		if herr == nil && merr == nil {
			return sign * (float64(hours) + float64(minutes)/60), true
		}
	}
	h, err := strconv.ParseFloat(tz, 64)
	if err != nil {
		return 0, false
	}
	return sign * h, true
}

// Biography is the HTML biography page of a callsign.
type Biography struct {
	Callsign string `json:"callsign"`
	HTML     string `json:"html"`
}

// IsEmpty reports whether the page has no content.
func (b *Biography) IsEmpty() bool {
	return strings.TrimSpace(b.HTML) == ""
}

// Clone returns a deep copy of the record.
func (c *Callsign) Clone() *Callsign {
	cp := *c
	cp.Lat, cp.Lon = cloneFloat(c.Lat), cloneFloat(c.Lon)
	return &cp
}

// Clone returns a deep copy of the record.
func (d *DXCC) Clone() *DXCC {
	cp := *d
	cp.Lat, cp.Lon = cloneFloat(d.Lat), cloneFloat(d.Lon)
	return &cp
}

// Clone returns a copy of the page.
func (b *Biography) Clone() *Biography {
	cp := *b
	return &cp
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func coordinates(lat, lon *float64) (float64, float64, bool) {
	if lat == nil || lon == nil {
		return 0, 0, false
	}
	return *lat, *lon, true
}

func yesNo(v string) (bool, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, false
	}
	return strings.EqualFold(v, "y") || strings.EqualFold(v, "yes") || v == "1", true
}

// String returns a one-line summary of the record.
func (c *Callsign) String() string {
	parts := []string{c.Call}
	if name := c.FullName(); name != "" {
		parts = append(parts, name)
	}
	if c.Country != "" {
		parts = append(parts, c.Country)
	}
	if c.Grid != "" {
		parts = append(parts, c.Grid)
	}
	return strings.Join(parts, " | ")
}

// String returns a one-line summary of the record.
func (d *DXCC) String() string {
	return fmt.Sprintf("%d %s (%s)", d.Code, d.Name, d.Continent)
}
