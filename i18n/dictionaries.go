package i18n

// Keys:
//
//	verb.<optionality>         requirement verb
//	requirement.<facet type>   requirement text, followed by suffix.<name> fragments
//	failure.<code>             failure reason
//	cardinality.*              cardinality messages ({min} {max} {actual})
//	report.*, status.*         report rendering
var dictionaries = map[string]map[string]string{
	"en": {
		"none":                  "(none)",
		"cardinality.too_few":   "Expected at least {min} applicable entities, found {actual}",
		"cardinality.too_many":  "Expected at most {max} applicable entities, found {actual}",
		"cardinality.ok":        "Found {actual} applicable entities (allowed {min}..{max})",
		"report.title":          "IDS validation report",
		"report.model":          "Model",
		"report.summary":        "Summary",
		"report.specifications": "{passed} passed, {failed} failed, {na} not applicable of {total} specifications",
		"report.entities":       "{passed} of {checked} checked entities passed ({rate}%)",
		"report.applicable":     "{applicable} applicable, {checked} checked, {failed} failed",
		"status.pass":           "PASS",
		"status.fail":           "FAIL",
		"status.not_applicable": "N/A",
	},
	"de": {
		"none":                       "(keine)",
		"verb.required":              "Erforderlich",
		"verb.optional":              "Optional",
		"verb.prohibited":            "Unzulässig",
		"requirement.entity":         "{verb}: Klasse {name}",
		"requirement.attribute":      "{verb}: Attribut {name}",
		"requirement.property":       "{verb}: Eigenschaft {pset}.{name}",
		"requirement.classification": "{verb}: Klassifikation",
		"requirement.material":       "{verb}: Material",
		"requirement.partOf":         "{verb}: Teil von (über {relation})",
		"suffix.predefinedType":      " mit vordefiniertem Typ {predefinedType}",
		"suffix.value":               " = {value}",
		"suffix.dataType":            " ({dataType})",
		"suffix.system":              " im System {system}",
		"suffix.parent":              " {parent}",

		"failure.entity_type_mismatch":           "Klasse ist {actual}, erwartet {expected}",
		"failure.predefined_type_missing":        "Vordefinierter Typ fehlt, erwartet {expected}",
		"failure.predefined_type_mismatch":       "Vordefinierter Typ ist {actual}, erwartet {expected}",
		"failure.attribute_missing":              "Attribut {field} fehlt oder ist leer",
		"failure.attribute_value_mismatch":       "Attribut {field} ist {actual}, erwartet {expected}",
		"failure.attribute_pattern_mismatch":     "Attribut {field} mit Wert {actual} entspricht nicht {expected}",
		"failure.property_set_missing":           "Eigenschaftssatz {field} fehlt",
		"failure.property_missing":               "Eigenschaft {field} fehlt oder ist leer",
		"failure.property_value_mismatch":        "Eigenschaft {field} ist {actual}, erwartet {expected}",
		"failure.property_datatype_mismatch":     "Eigenschaft {field} hat Datentyp {actual}, erwartet {expected}",
		"failure.property_out_of_range":          "Eigenschaft {field} mit Wert {actual} liegt außerhalb von {expected}",
		"failure.classification_missing":         "Keine Klassifikation zugewiesen",
		"failure.classification_system_mismatch": "Klassifikationssystem ist {actual}, erwartet {expected}",
		"failure.classification_value_mismatch":  "Klassifikation ist {actual}, erwartet {expected}",
		"failure.material_missing":               "Kein Material zugewiesen",
		"failure.material_value_mismatch":        "Material ist {actual}, erwartet {expected}",
		"failure.part_of_relation_missing":       "Element ist nicht über {field} verknüpft",
		"failure.part_of_entity_mismatch":        "Element ist Teil von {actual}, erwartet {expected}",
		"failure.prohibited_present":             "Unzulässig vorhanden: {requirement}",

		"cardinality.too_few":   "Mindestens {min} anwendbare Elemente erwartet, {actual} gefunden",
		"cardinality.too_many":  "Höchstens {max} anwendbare Elemente erwartet, {actual} gefunden",
		"cardinality.ok":        "{actual} anwendbare Elemente gefunden (erlaubt {min}..{max})",
		"report.title":          "IDS-Prüfbericht",
		"report.model":          "Modell",
		"report.summary":        "Zusammenfassung",
		"report.specifications": "{passed} bestanden, {failed} nicht bestanden, {na} nicht anwendbar von {total} Spezifikationen",
		"report.entities":       "{passed} von {checked} geprüften Elementen bestanden ({rate}%)",
		"report.applicable":     "{applicable} anwendbar, {checked} geprüft, {failed} nicht bestanden",
		"status.pass":           "OK",
		"status.fail":           "FEHLER",
		"status.not_applicable": "N/A",
	},
	"ja": {
		"none":                       "(なし)",
		"verb.required":              "必須",
		"verb.optional":              "任意",
		"verb.prohibited":            "禁止",
		"requirement.entity":         "{verb}: クラス {name}",
		"requirement.attribute":      "{verb}: 属性 {name}",
		"requirement.property":       "{verb}: プロパティ {pset}.{name}",
		"requirement.classification": "{verb}: 分類",
		"requirement.material":       "{verb}: 材料",
		"requirement.partOf":         "{verb}: {relation} による所属",
		"suffix.predefinedType":      " (定義済みタイプ {predefinedType})",
		"suffix.value":               " = {value}",
		"suffix.dataType":            " ({dataType})",
		"suffix.system":              " 体系 {system}",
		"suffix.parent":              " {parent}",

		"failure.entity_type_mismatch":           "クラスが {actual} です (期待値: {expected})",
		"failure.predefined_type_missing":        "定義済みタイプがありません (期待値: {expected})",
		"failure.predefined_type_mismatch":       "定義済みタイプが {actual} です (期待値: {expected})",
		"failure.attribute_missing":              "属性 {field} がないか空です",
		"failure.attribute_value_mismatch":       "属性 {field} が {actual} です (期待値: {expected})",
		"failure.attribute_pattern_mismatch":     "属性 {field} の値 {actual} が {expected} に一致しません",
		"failure.property_set_missing":           "プロパティセット {field} がありません",
		"failure.property_missing":               "プロパティ {field} がないか空です",
		"failure.property_value_mismatch":        "プロパティ {field} が {actual} です (期待値: {expected})",
		"failure.property_datatype_mismatch":     "プロパティ {field} のデータ型が {actual} です (期待値: {expected})",
		"failure.property_out_of_range":          "プロパティ {field} の値 {actual} が範囲 {expected} 外です",
		"failure.classification_missing":         "分類が割り当てられていません",
		"failure.classification_system_mismatch": "分類体系が {actual} です (期待値: {expected})",
		"failure.classification_value_mismatch":  "分類が {actual} です (期待値: {expected})",
		"failure.material_missing":               "材料が割り当てられていません",
		"failure.material_value_mismatch":        "材料が {actual} です (期待値: {expected})",
		"failure.part_of_relation_missing":       "{field} による関連がありません",
		"failure.part_of_entity_mismatch":        "所属先が {actual} です (期待値: {expected})",
		"failure.prohibited_present":             "禁止された条件が存在します: {requirement}",

		"cardinality.too_few":   "適用対象が {min} 件以上必要ですが {actual} 件でした",
		"cardinality.too_many":  "適用対象は {max} 件以下である必要がありますが {actual} 件でした",
		"cardinality.ok":        "適用対象 {actual} 件 (許容 {min}..{max})",
		"report.title":          "IDS 検証レポート",
		"report.model":          "モデル",
		"report.summary":        "概要",
		"report.specifications": "{total} 件中 合格 {passed} / 不合格 {failed} / 対象外 {na}",
		"report.entities":       "検査 {checked} 件中 {passed} 件合格 ({rate}%)",
		"report.applicable":     "適用 {applicable} 件 / 検査 {checked} 件 / 不合格 {failed} 件",
		"status.pass":           "合格",
		"status.fail":           "不合格",
		"status.not_applicable": "対象外",
	},
}
