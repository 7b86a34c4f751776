package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"

	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/normalize"
	"github.com/shinji-kodama/turknet-query/internal/province"
)

// indent prefixes every field line under a section heading.
const indent = "    "

// levelTitles are the Turkish names of the address levels in text output.
var levelTitles = map[model.Level]string{
	model.LevelProvince:     "İl",
	model.LevelDistrict:     "İlçe",
	model.LevelSubDistrict:  "Bucak",
	model.LevelVillage:      "Köy",
	model.LevelNeighborhood: "Mahalle",
	model.LevelStreet:       "Cadde/Sokak",
	model.LevelBuilding:     "Bina",
	model.LevelApartment:    "Daire",
}

// colorNames are the Turkish names of the status colors.
var colorNames = map[model.StatusColor]string{
	model.ColorGreen: "Yeşil",
	model.ColorBrown: "Kahverengi",
	model.ColorNone:  "Renksiz",
}

// printer writes command results as colored Turkish text or as JSON.
type printer struct {
	w     io.Writer
	json  bool
	color bool
}

// newPrinter creates a printer honoring --json, --no-color and the
// NO_COLOR convention.
func newPrinter(w io.Writer) *printer {
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	return &printer{
		w:     w,
		json:  IsJSONOutput(),
		color: !noColor && !noColorEnv,
	}
}

func (p *printer) paint(c color.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

func (p *printer) heading(s string) string {
	return p.paint(color.Cyan, s)
}

func (p *printer) yesNo(b bool) string {
	if b {
		return p.paint(color.Green, "Evet")
	}
	return p.paint(color.Red, "Hayır")
}

// description renders an empty description as "Yok".
func (p *printer) description(s string) string {
	if s == "" {
		return p.paint(color.Red, "Yok")
	}
	return s
}

func (p *printer) field(b *strings.Builder, label string, value interface{}) {
	fmt.Fprintf(b, "%s%s: %v\n", indent, label, value)
}

// availability prints a Türk.net availability result.
func (p *printer) availability(r *model.AvailabilityResult) error {
	if p.json {
		writeJSON(p.w, r)
		return nil
	}
	_, err := io.WriteString(p.w, p.availabilityText(r))
	return err
}

func (p *printer) availabilityText(r *model.AvailabilityResult) string {
	var b strings.Builder

	b.WriteString(p.heading("Türknet Fiber Durumu:") + "\n")
	p.field(&b, "Var mı?", p.yesNo(r.TurknetFiber.IsAvailable))
	p.field(&b, "GigaFiber mi?", p.yesNo(r.TurknetFiber.IsGigaFiber))
	p.field(&b, "GigaFiber planlandı mı?", p.yesNo(r.TurknetFiber.IsGigaFiberPlanned))
	p.field(&b, "Maksimum kapasite", r.TurknetFiber.MaxCapacity)

	b.WriteString(p.heading("VAE Fiber Durumu:") + "\n")
	p.field(&b, "Var mı?", p.yesNo(r.VAEFiber.IsAvailable))
	p.field(&b, "Maksimum kapasite", r.VAEFiber.MaxCapacity)
	p.field(&b, "Maksimum kapasite servis tipi", r.VAEFiber.MaxCapacityServiceType)
	p.field(&b, "NmsMax", r.VAEFiber.NmsMax)
	p.field(&b, "Tip", r.VAEFiber.Type)
	p.field(&b, "Açıklama", p.description(r.VAEFiber.Description))

	b.WriteString(p.heading("VDSL Durumu:") + "\n")
	p.field(&b, "Var mı?", p.yesNo(r.VDSL.IsAvailable))
	p.field(&b, "Maksimum kapasite", r.VDSL.MaxCapacity)
	p.field(&b, "Maksimum kapasite servis tipi", r.VDSL.MaxCapacityServiceType)
	p.field(&b, "NmsMax", r.VDSL.NmsMax)
	p.field(&b, "Açıklama", p.description(r.VDSL.Description))

	b.WriteString(p.heading("xDSL Durumu:") + "\n")
	p.field(&b, "Var mı?", p.yesNo(r.XDSL.IsAvailable))
	p.field(&b, "Maksimum kapasite", r.XDSL.MaxCapacity)
	p.field(&b, "NmsMax", r.XDSL.NmsMax)
	p.field(&b, "Açıklama", p.description(r.XDSL.Description))

	b.WriteString(p.heading("YAPA Durumu:") + "\n")
	p.field(&b, "Var mı?", p.yesNo(r.YAPA.IsAvailable))
	p.field(&b, "\"Indoor\" mu?", p.yesNo(r.YAPA.IsIndoor))
	p.field(&b, "Türknet santralde aktif mi?", p.yesNo(r.YAPA.IsTurknetActiveOnExchange))
	p.field(&b, "Açıklama", p.description(r.YAPA.Description))

	return b.String()
}

// selection prints the chosen address and its BBK code.
func (p *printer) selection(sel *addressSelection) error {
	if p.json {
		writeJSON(p.w, struct {
			Steps []addressStep `json:"steps"`
			BBK   model.Code    `json:"bbk"`
		}{Steps: sel.Steps, BBK: sel.Apartment().Code})
		return nil
	}
	_, err := io.WriteString(p.w, p.selectionText(sel))
	return err
}

func (p *printer) selectionText(sel *addressSelection) string {
	var b strings.Builder
	b.WriteString(p.heading("Adres:") + "\n")
	for _, s := range sel.Steps {
		p.field(&b, levelTitles[s.Level], s.Name)
	}
	fmt.Fprintf(&b, "%s %s\n", p.heading("BBK kodu:"), sel.Apartment().Code)
	return b.String()
}

// addressAvailability prints the chosen address followed by its
// availability result.
func (p *printer) addressAvailability(sel *addressSelection, r *model.AvailabilityResult) error {
	if p.json {
		writeJSON(p.w, struct {
			Address      *addressSelection         `json:"address"`
			BBK          model.Code                `json:"bbk"`
			Availability *model.AvailabilityResult `json:"availability"`
		}{Address: sel, BBK: sel.Apartment().Code, Availability: r})
		return nil
	}
	_, err := io.WriteString(p.w, p.selectionText(sel)+p.availabilityText(r))
	return err
}

// lines prints Göknet's per-technology line records.
func (p *printer) lines(bbk model.Code, r *model.LineResult) error {
	if p.json {
		writeJSON(p.w, struct {
			BBK model.Code `json:"bbk"`
			*model.LineResult
		}{BBK: bbk, LineResult: r})
		return nil
	}
	_, err := io.WriteString(p.w, p.linesText(bbk, r))
	return err
}

func (p *printer) linesText(bbk model.Code, r *model.LineResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", p.heading("BBK kodu:"), bbk)

	sections := []struct {
		title string
		rec   model.LineRecord
	}{
		{"ADSL Durumu:", r.ADSL},
		{"VDSL Durumu:", r.VDSL},
		{"FTTH Durumu:", r.FTTH},
	}
	for _, s := range sections {
		b.WriteString(p.heading(s.title) + "\n")
		p.field(&b, "Hata kodu", p.description(s.rec.ErrorCode))
		p.field(&b, "Hata mesajı", p.description(s.rec.ErrorMessage))
		for _, f := range s.rec.Fields {
			p.field(&b, f.Label, p.lineValue(f))
		}
	}
	return b.String()
}

// lineValue renders one normalized line field.
func (p *printer) lineValue(f model.Field) string {
	switch f.Value.Kind {
	case model.KindBool:
		return p.yesNo(f.Value.Bool)
	case model.KindText:
		if f.Name == normalize.StatusColorField {
			return p.statusColor(model.StatusColor(f.Value.Text))
		}
		return p.description(f.Value.Text)
	default:
		return p.description("")
	}
}

func (p *printer) statusColor(c model.StatusColor) string {
	name, ok := colorNames[c]
	if !ok {
		name = string(c)
	}
	switch c {
	case model.ColorGreen:
		return p.paint(color.Green, name)
	case model.ColorBrown:
		return p.paint(color.Yellow, name)
	default:
		return name
	}
}

// provinces prints the plate table.
func (p *printer) provinces(all []province.Province) error {
	if p.json {
		if all == nil {
			all = []province.Province{}
		}
		writeJSON(p.w, all)
		return nil
	}

	var b strings.Builder
	for _, prov := range all {
		fmt.Fprintf(&b, "%2d  %s\n", prov.Code, prov.Name)
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}
