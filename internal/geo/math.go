package geo

import "math"

// ellipsoid is a reference ellipsoid given by its semi-major and semi-minor axes in meters.
type ellipsoid struct {
	a, b float64
}

var (
	airy1830 = ellipsoid{a: 6377563.396, b: 6356256.909}
	wgs84    = ellipsoid{a: 6378137.000, b: 6356752.314245}
)

func (e ellipsoid) eccentricity2() float64 {
	return 1 - (e.b*e.b)/(e.a*e.a)
}

// National Grid projection constants (Transverse Mercator on Airy 1830).
const (
	gridScale     = 0.9996012717 // F0
	gridOriginLat = 49 * math.Pi / 180
	gridOriginLng = -2 * math.Pi / 180
	gridFalseE    = 400000.0
	gridFalseN    = -100000.0
)

// helmert holds the seven parameters of a datum shift.
// Translations are in meters, rotations in arc seconds, scale in ppm.
type helmert struct {
	tx, ty, tz float64
	rx, ry, rz float64
	s          float64
}

// osgb36ToWGS84 is the inverse of the published WGS84 -> OSGB36 transform.
var osgb36ToWGS84 = helmert{
	tx: 446.448, ty: -125.157, tz: 542.060,
	rx: 0.1502, ry: 0.2470, rz: 0.8421,
	s: -20.4894,
}

// gridToOSGB36 applies the inverse Transverse Mercator projection and returns
// OSGB36 latitude and longitude in radians.
func gridToOSGB36(easting, northing float64) (lat, lng float64) {
	a, b := airy1830.a, airy1830.b
	e2 := airy1830.eccentricity2()
	n := (a - b) / (a + b)
	n2, n3 := n*n, n*n*n

	meridian := func(phi float64) float64 {
		dPhi, sPhi := phi-gridOriginLat, phi+gridOriginLat
		ma := (1 + n + 1.25*n2 + 1.25*n3) * dPhi
		mb := (3*n + 3*n2 + 21.0/8*n3) * math.Sin(dPhi) * math.Cos(sPhi)
		mc := (15.0/8*n2 + 15.0/8*n3) * math.Sin(2*dPhi) * math.Cos(2*sPhi)
		md := 35.0 / 24 * n3 * math.Sin(3*dPhi) * math.Cos(3*sPhi)
		return b * gridScale * (ma - mb + mc - md)
	}

	phi := gridOriginLat
	m := 0.0
	for i := 0; i < 100; i++ {
		phi += (northing - gridFalseN - m) / (a * gridScale)
		m = meridian(phi)
		if math.Abs(northing-gridFalseN-m) < 0.00001 {
			break
		}
	}

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	nu := a * gridScale / math.Sqrt(1-e2*sinPhi*sinPhi)
	rho := a * gridScale * (1 - e2) / math.Pow(1-e2*sinPhi*sinPhi, 1.5)
	eta2 := nu/rho - 1

	tanPhi := math.Tan(phi)
	tan2, tan4, tan6 := tanPhi*tanPhi, math.Pow(tanPhi, 4), math.Pow(tanPhi, 6)
	secPhi := 1 / cosPhi
	nu3, nu5, nu7 := math.Pow(nu, 3), math.Pow(nu, 5), math.Pow(nu, 7)

	vii := tanPhi / (2 * rho * nu)
	viii := tanPhi / (24 * rho * nu3) * (5 + 3*tan2 + eta2 - 9*tan2*eta2)
	ix := tanPhi / (720 * rho * nu5) * (61 + 90*tan2 + 45*tan4)
	x := secPhi / nu
	xi := secPhi / (6 * nu3) * (nu/rho + 2*tan2)
	xii := secPhi / (120 * nu5) * (5 + 28*tan2 + 24*tan4)
	xiia := secPhi / (5040 * nu7) * (61 + 662*tan2 + 1320*tan4 + 720*tan6)

	dE := easting - gridFalseE
	dE2 := dE * dE

	lat = phi - vii*dE2 + viii*dE2*dE2 - ix*dE2*dE2*dE2
	lng = gridOriginLng + x*dE - xi*dE2*dE + xii*dE2*dE2*dE - xiia*dE2*dE2*dE2*dE

	return lat, lng
}

// toCartesian converts geodetic coordinates (radians, height 0) to ECEF.
func (e ellipsoid) toCartesian(lat, lng float64) (x, y, z float64) {
	e2 := e.eccentricity2()
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	nu := e.a / math.Sqrt(1-e2*sinLat*sinLat)

	x = nu * cosLat * math.Cos(lng)
	y = nu * cosLat * math.Sin(lng)
	z = (1 - e2) * nu * sinLat

	return x, y, z
}

// fromCartesian converts ECEF coordinates back to geodetic radians.
func (e ellipsoid) fromCartesian(x, y, z float64) (lat, lng float64) {
	e2 := e.eccentricity2()
	p := math.Hypot(x, y)

	lat = math.Atan2(z, p*(1-e2))
	for i := 0; i < 100; i++ {
		sinLat := math.Sin(lat)
		nu := e.a / math.Sqrt(1-e2*sinLat*sinLat)
		next := math.Atan2(z+e2*nu*sinLat, p)
		done := math.Abs(next-lat) < 1e-12
		lat = next
		if done {
			break
		}
	}

	return lat, math.Atan2(y, x)
}

func (h helmert) apply(x, y, z float64) (float64, float64, float64) {
	const arcsec = math.Pi / (180 * 3600)

	s1 := 1 + h.s/1e6
	rx, ry, rz := h.rx*arcsec, h.ry*arcsec, h.rz*arcsec

	return h.tx + x*s1 - y*rz + z*ry,
		h.ty + x*rz + y*s1 - z*rx,
		h.tz - x*ry + y*rx + z*s1
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
