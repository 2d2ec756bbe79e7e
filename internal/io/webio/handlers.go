package webio

import (
	"bytes"
	"encoding/json"
	"html/template"
	"slices"

	"github.com/gnames/gnsys"
	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/dashboard"
	"github.com/gnames/spidermap/internal/ent/figure"
	spidermap "github.com/gnames/spidermap/pkg"
	"github.com/gofiber/fiber/v2"
)

var funcs = template.FuncMap{
	"has": slices.Contains[[]string],
}

type pageData struct {
	dashboard.Page
	Version string
	Mode    string
	Figures map[string]template.JS
}

func (s *Server) index(c *fiber.Ctx) error {
	sel, err := s.selection(c)
	if err != nil {
		return err
	}
	d, err := s.sm.DashboardData(c.UserContext(), s.ldr)
	if err != nil {
		return err
	}
	page, err := s.rnd.Render(d, sel)
	if err != nil {
		return err
	}

	data := pageData{
		Page:    page,
		Version: spidermap.Version,
		Mode:    s.rnd.Mode().String(),
		Figures: make(map[string]template.JS),
	}
	figs := map[string]figure.Figure{
		"choropleth": page.Choropleth,
		"scatter":    page.Scatter,
		"climate":    page.Climate,
	}
	for k, v := range figs {
		bs, err := json.Marshal(v)
		if err != nil {
			return err
		}
		data.Figures[k] = template.JS(bs)
	}

	var buf bytes.Buffer
	if err = s.page.Execute(&buf, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) figureJSON(c *fiber.Ctx) error {
	sel, err := s.selection(c)
	if err != nil {
		return err
	}
	d, err := s.sm.DashboardData(c.UserContext(), s.ldr)
	if err != nil {
		return err
	}

	var res figure.Figure
	switch name := c.Params("name"); name {
	case "choropleth":
		res = s.rnd.ChoroplethFigure(d)
	case "scatter":
		res = s.rnd.ScatterFigure(d, sel)
	case "climate":
		res, err = s.rnd.ClimateFigure(d, sel)
		if err != nil {
			return err
		}
	default:
		return fiber.NewError(fiber.StatusNotFound, "unknown figure "+name)
	}
	return c.JSON(res)
}

func (s *Server) species(c *fiber.Ctx) error {
	sel, err := s.selection(c)
	if err != nil {
		return err
	}
	d, err := s.sm.DashboardData(c.UserContext(), s.ldr)
	if err != nil {
		return err
	}
	names := s.rnd.Species(d, sel)
	return c.JSON(fiber.Map{
		"families": sel.Families,
		"species":  s.taxa.List(names),
	})
}

func (s *Server) families(c *fiber.Ctx) error {
	d, err := s.sm.DashboardData(c.UserContext(), s.ldr)
	if err != nil {
		return err
	}
	return c.JSON(agg.Families(d.Records))
}

func (s *Server) invalidate(c *fiber.Ctx) error {
	if c.QueryBool("all") {
		if err := s.ldr.Reset(); err != nil {
			return err
		}
	} else {
		s.ldr.Invalidate(s.cfg.DataPath)
		s.ldr.Invalidate(s.cfg.RegionsPath)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) banner(c *fiber.Ctx) error {
	if s.cfg.ImagePath != "" {
		if exists, _ := gnsys.FileExists(s.cfg.ImagePath); exists {
			return c.SendFile(s.cfg.ImagePath)
		}
	}
	data, err := assets.ReadFile("static/banner.png")
	if err != nil {
		return err
	}
	c.Type("png")
	return c.Send(data)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": spidermap.Version,
		"mode":    s.rnd.Mode().String(),
	})
}

// selection reads widget state from the query. The first page load has
// neither families nor the submitted flag and gets the default family.
func (s *Server) selection(c *fiber.Ctx) (dashboard.Selection, error) {
	args := c.Context().QueryArgs()
	fams := args.PeekMulti("family")
	if len(fams) == 0 && c.Query("submitted") == "" {
		return dashboard.NewSelection(s.cfg.DefaultFamily), nil
	}

	res := dashboard.Selection{
		Families:    make([]string, 0, len(fams)),
		ShowSpecies: c.QueryBool("species"),
		Climate:     dashboard.Climate(c.Query("climate")),
	}
	for _, v := range fams {
		res.Families = append(res.Families, string(v))
	}
	if err := res.Validate(); err != nil {
		return res, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return res, nil
}
