package report

// field binds a payload key to the label printed in the report.
type field struct {
	Key   string
	Label string
	// Aliases are alternative payload keys for the same value.
	Aliases []string
	// Optional rows are left out of the report when the payload does not carry them.
	Optional bool
}

func (f field) keys() []string {
	return append([]string{f.Key}, f.Aliases...)
}

type sectionLayout struct {
	Key    string
	Title  string
	Fields []field
}

type supervisionLayout struct {
	Key      string
	Title    string
	Summary  []field
	Sections []sectionLayout
}

var generalFieldsV2 = []field{
	{Key: "encontrados", Label: "Beneficiarias/os activas/os", Aliases: []string{"encontradas"}},
	{Key: "ausentes", Label: "Beneficiarias/os no activas/os"},
	{Key: "renuncias", Label: "Beneficiarias/os que renunciaron"},
	{Key: "desvinculados", Label: "Beneficiarias/os desvinculadas/os"},
	{Key: "fallecidos", Label: "Beneficiarias/os fallecidas/os"},
	{Key: "fiscalizados", Label: "Beneficiarias/os fiscalizadas/os"},
	{Key: "totalCuposEjecutados", Label: "Total beneficiarias/os", Aliases: []string{"total"}},
	{Key: "totalSupervisionesTerreno", Label: "Supervisiones en terreno", Optional: true},
	{Key: "totalSupervisionesOficina", Label: "Supervisiones en oficina", Optional: true},
	{Key: "totalSupervisiones", Label: "Total supervisiones", Optional: true},
}

// requiredGeneralFields must be present in datosGenerales; desvinculados defaults to 0.
var requiredGeneralFields = []field{
	{Key: "encontradas", Aliases: []string{"encontrados"}},
	{Key: "ausentes"},
	{Key: "renuncias"},
	{Key: "fallecidos"},
	{Key: "fiscalizados"},
	{Key: "total", Aliases: []string{"totalCuposEjecutados"}},
}

var requiredFieldsV2 = []field{
	{Key: "mes"},
	{Key: "region"},
	{Key: "datosGenerales"},
	{Key: "supervisionTerreno"},
	{Key: "supervisionOficina"},
	{Key: "comentariosGenerales"},
	{Key: "comentariosFiscalizacion", Aliases: []string{"comentariosSupervision"}},
	{Key: "otrosMeses"},
	{Key: "firmante"},
	{Key: "cargo"},
}

var requiredFieldsV1 = []field{
	{Key: "mes"},
	{Key: "region"},
	{Key: "firmante"},
	{Key: "cargo"},
}

var topLevelFieldsV2 = []field{
	{Key: "cuposDisponibles", Label: "Cupos disponibles", Optional: true},
	{Key: "porcentajeCuposEjecutados", Label: "Porcentaje de cupos ejecutados", Optional: true},
}

var fieldSupervisionV2 = supervisionLayout{
	Key:   "supervisionTerreno",
	Title: "Supervisión en terreno",
	Summary: []field{
		{Key: "soportePapelTerreno", Label: "Supervisiones en terreno con soporte papel", Optional: true},
	},
	Sections: []sectionLayout{
		{Key: "asistencia", Title: "Asistencia", Fields: []field{
			{Key: "libroAsistencia", Label: "Cuenta con libro de asistencia"},
			{Key: "firmaLibro", Label: "Firma el libro de asistencia"},
			{Key: "presencia", Label: "Se encuentra en su lugar de trabajo"},
			{Key: "horariosFirma", Label: "Horarios de firma coinciden con el contrato"},
			{Key: "funcionContrato", Label: "Cumple la función indicada en el contrato"},
		}},
		{Key: "condicionesTrabajo", Title: "Condiciones de trabajo", Fields: []field{
			{Key: "recibeEpp", Label: "Recibe elementos de protección personal"},
			{Key: "eppAdecuados", Label: "Los elementos de protección son adecuados"},
			{Key: "utilizaEpp", Label: "Utiliza los elementos de protección"},
			{Key: "insumosAdecuados", Label: "Cuenta con insumos adecuados"},
			{Key: "condicionesLaboralesAdecuadas", Label: "Condiciones laborales adecuadas"},
			{Key: "charla", Label: "Recibió charla de seguridad"},
		}},
		{Key: "supervisionEjecutora", Title: "Supervisión de la ejecutora", Fields: []field{
			{Key: "supervisionEjecutora", Label: "La ejecutora realiza supervisiones"},
		}},
	},
}

var officeSupervisionV2 = supervisionLayout{
	Key:   "supervisionOficina",
	Title: "Supervisión en oficina",
	Summary: []field{
		{Key: "soportePapelOficina", Label: "Supervisiones en oficina con soporte papel", Optional: true},
	},
	Sections: []sectionLayout{
		{Key: "requisitos", Title: "Requisitos de ingreso", Fields: []field{
			{Key: "cedulaIdentidad", Label: "Cédula de identidad"},
			{Key: "declaracionCesantia", Label: "Declaración jurada de cesantía"},
			{Key: "rsh", Label: "Registro Social de Hogares"},
			{Key: "certificadoCotizaciones", Label: "Certificado de cotizaciones"},
		}},
		{Key: "revisionContrato", Title: "Revisión de contrato", Fields: []field{
			{Key: "debidamenteFirmado", Label: "Contrato debidamente firmado"},
			{Key: "horarios", Label: "Indica horarios de trabajo"},
			{Key: "direccionLugarTrabajo", Label: "Indica dirección del lugar de trabajo"},
			{Key: "funcionTrabajo", Label: "Indica la función a desempeñar"},
		}},
		{Key: "obligacionesLaborales", Title: "Obligaciones laborales", Fields: []field{
			{Key: "actaEpp", Label: "Acta de entrega de elementos de protección"},
			{Key: "actaInsumos", Label: "Acta de entrega de insumos"},
			{Key: "liquidacionesSueldos", Label: "Liquidaciones de sueldo"},
			{Key: "comprobantePagosPrevisionales", Label: "Comprobante de pagos previsionales"},
			{Key: "registroSupervisiones", Label: "Registro de supervisiones"},
			{Key: "registroAsistencia", Label: "Registro de asistencia"},
		}},
	},
}

var generalFieldsV1 = []field{
	{Key: "encontradas", Label: "Beneficiarias/os activas/os", Aliases: []string{"encontrados"}},
	{Key: "ausentes", Label: "Beneficiarias/os no activas/os"},
	{Key: "renuncias", Label: "Beneficiarias/os que renunciaron"},
	{Key: "fiscalizados", Label: "Beneficiarias/os fiscalizadas/os"},
	{Key: "fallecidos", Label: "Beneficiarias/os fallecidas/os"},
	{Key: "total", Label: "Total beneficiarias/os", Aliases: []string{"totalCuposEjecutados"}},
}

// v1 checks are yes/no flags, each with an "<key>Observa" observation.
var fieldChecksV1 = []field{
	{Key: "epp", Label: "Recibe elementos de protección personal"},
	{Key: "usoEpp", Label: "Utiliza los elementos de protección"},
	{Key: "libroAsistencia", Label: "Cuenta con libro de asistencia"},
	{Key: "jornadaCorrecta", Label: "Cumple la jornada de trabajo"},
	{Key: "condicionesOptimas", Label: "Condiciones laborales óptimas"},
	{Key: "laboresContrato", Label: "Realiza las labores del contrato"},
	{Key: "capacitacion", Label: "Recibió capacitación"},
	{Key: "remuneracion", Label: "Recibe su remuneración"},
}
