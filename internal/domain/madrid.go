package domain

// RoomTypes is the closed set of Airbnb room types the model was trained on.
var RoomTypes = []string{
	"Entire home/apt",
	"Private room",
	"Shared room",
	"Hotel room",
}

// Districts is the closed set of 20 Madrid districts
// (neighbourhood_group_cleansed values in the source data).
var Districts = []string{
	"Barajas",
	"Carabanchel",
	"Centro",
	"Chamartín",
	"Chamberí",
	"Ciudad Lineal",
	"Fuencarral - El Pardo",
	"Hortaleza",
	"Latina",
	"Moncloa - Aravaca",
	"Moratalaz",
	"Puente de Vallecas",
	"Retiro",
	"Salamanca",
	"San Blas - Canillejas",
	"Tetuán",
	"Usera",
	"Vicálvaro",
	"Villa de Vallecas",
	"Villaverde",
}

// MadridGeography maps each district to its official neighbourhoods.
// Served to the UI so the district and neighbourhood pickers stay in sync
// with the boundary file.
var MadridGeography = map[string][]string{
	"Centro":                {"Sol", "Palacio", "Embajadores", "Cortes", "Justicia", "Universidad"},
	"Salamanca":             {"Recoletos", "Goya", "Fuente del Berro", "Guindalera", "Lista", "Castellana"},
	"Ciudad Lineal":         {"Ventas", "Pueblo Nuevo", "Quintana", "Concepción", "San Pascual", "San Juan Bautista", "Colina", "Atalaya", "Costillares"},
	"Retiro":                {"Pacífico", "Adelfas", "Estrella", "Ibiza", "Jerónimos", "Niño Jesús"},
	"Chamberí":              {"Gaztambide", "Arapiles", "Trafalgar", "Almagro", "Ríos Rosas", "Vallehermoso"},
	"Chamartín":             {"El Viso", "Prosperidad", "Ciudad Jardín", "Hispanoamérica", "Nueva España", "Castilla"},
	"Tetuán":                {"Bellas Vistas", "Cuatro Caminos", "Castillejos", "Almenara", "Valdeacederas", "Berruguete"},
	"Moncloa - Aravaca":     {"Casa de Campo", "Argüelles", "Ciudad Universitaria", "Valdezarza", "Valdemarín", "El Plantío", "Aravaca"},
	"Latina":                {"Los Cármenes", "Puerta del Ángel", "Lucero", "Aluche", "Campamento", "Cuatro Vientos", "Águilas"},
	"Carabanchel":           {"Comillas", "Opañel", "San Isidro", "Vista Alegre", "Puerta Bonita", "Buenavista", "Abrantes"},
	"Usera":                 {"Orcasitas", "Orcasur", "San Fermín", "Almendrales", "Moscardó", "Zofío", "Pradolongo"},
	"Moratalaz":             {"Pavones", "Horcajo", "Marroquina", "Media Legua", "Fontarrón", "Vinateros"},
	"Puente de Vallecas":    {"Entrevías", "San Diego", "Palomeras Bajas", "Palomeras Sureste", "Portazgo", "Numancia"},
	"Villa de Vallecas":     {"Casco Histórico de Vallecas", "Santa Eugenia", "Ensanche de Vallecas"},
	"Vicálvaro":             {"Casco Histórico de Vicálvaro", "Valdebernardo", "Valderrivas", "El Cañaveral"},
	"San Blas - Canillejas": {"Simancas", "Hellín", "Amposta", "Arcos", "Rosas", "Rejas", "Canillejas", "Salvador"},
	"Barajas":               {"Alameda de Osuna", "Aeropuerto", "Casco Histórico de Barajas", "Timón", "Corralejos"},
	"Hortaleza":             {"Palomas", "Piovera", "Canillas", "Pinar del Rey", "Apóstol Santiago", "Valdefuentes"},
	"Fuencarral - El Pardo": {"El Pardo", "Fuentelarreina", "Peñagrande", "Pilar", "La Paz", "Valverde", "Mirasierra", "El Goloso"},
	"Villaverde":            {"San Andrés", "San Cristóbal", "Butarque", "Los Rosales", "Los Ángeles"},
}

// ValidDistrict reports whether name is one of the 20 Madrid districts.
func ValidDistrict(name string) bool {
	_, ok := MadridGeography[name]
	return ok
}

// ValidRoomType reports whether name is a known room type.
func ValidRoomType(name string) bool {
	for _, rt := range RoomTypes {
		if rt == name {
			return true
		}
	}
	return false
}
