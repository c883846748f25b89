package checklist

// DefaultItems is the standard daily checklist of the paper form, in form order.
var DefaultItems = []string{
	"مستوى زيت المحرك (Engine oil level)",
	"مستوى سائل التبريد (Coolant level)",
	"مستوى زيت الفرامل (Brake fluid level)",
	"ضغط الإطارات (Tire pressure)",
	"حالة الإطارات والعجلات (Tire and wheel condition)",
	"الأضواء والإشارات (Lights and signals)",
	"المرايا (Mirrors)",
	"حزام الأمان (Safety belt)",
	"أدوات السلامة (Safety equipment)",
	"نظافة الزجاج الأمامي والخلفي (Windshield cleanliness)",
	"مستوى الوقود (Fuel level)",
	"حالة البطارية (Battery condition)",
	"نظام التكييف (Air conditioning system)",
	"حالة المقود (Steering condition)",
	"نظام الفرامل (Brake system)",
	"الأصوات غير الطبيعية (Unusual sounds)",
	"التسربات (Leakages)",
}
