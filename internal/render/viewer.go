package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/woozymasta/csv2geojson/internal/geo"
)

const leafletVersion = "1.9.4"

var viewerTemplate = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@{{.Leaflet}}/dist/leaflet.css">
  <style>
    html, body, #map { height: 100%; margin: 0; }
    .props td { padding: 0 6px 0 0; vertical-align: top; }
    .props td:first-child { font-weight: bold; }
  </style>
</head>
<body>
  <div id="map"></div>
  <script src="https://unpkg.com/leaflet@{{.Leaflet}}/dist/leaflet.js"></script>
  <script>
    var collection = {{.Collection}};
    var map = L.map('map');
    L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
      maxZoom: 19,
      attribution: '&copy; OpenStreetMap contributors'
    }).addTo(map);

    function popup(feature) {
      var table = document.createElement('table');
      table.className = 'props';
      Object.keys(feature.properties || {}).sort().forEach(function (key) {
        var row = table.insertRow();
        row.insertCell().textContent = key;
        row.insertCell().textContent = feature.properties[key];
      });
      return table;
    }

    var layer = L.geoJSON(collection, {
      onEachFeature: function (feature, marker) { marker.bindPopup(popup(feature)); }
    }).addTo(map);

    if (collection.features.length > 0) {
      map.fitBounds(layer.getBounds(), { padding: [20, 20], maxZoom: 16 });
    } else {
      map.setView([0, 0], 2);
    }
  </script>
</body>
</html>
`))

type viewerData struct {
	Title      string
	Leaflet    string
	Collection geo.GeoJSONFeatureCollection
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("application/javascript", js.Minify)

	return m
}

// Viewer writes a single minified HTML page that shows fc on a Leaflet map.
func Viewer(w io.Writer, title string, fc geo.GeoJSONFeatureCollection) error {
	var buf bytes.Buffer
	err := viewerTemplate.Execute(&buf, viewerData{
		Title:      title,
		Leaflet:    leafletVersion,
		Collection: fc,
	})
	if err != nil {
		return fmt.Errorf("render viewer: %w", err)
	}

	page, err := newMinifier().Bytes("text/html", buf.Bytes())
	if err != nil {
		return fmt.Errorf("minify viewer: %w", err)
	}

	_, err = w.Write(page)
	return err
}
