package storage

import (
	"context"
	"fmt"

	"github.com/locvx/ghichep/internal/model"
)

// seedCategory is a default category with its keyword dictionary.
type seedCategory struct {
	name     string
	keywords string
	kind     model.Kind
}

var defaultCategories = []seedCategory{
	{"Chợ/Siêu thị", "chợ,siêu thị,big c,coopmart,winmart,lotte,aeon,đi chợ,thực phẩm,rau,thịt,cá,trứng,gạo", model.KindExpense},
	{"Ăn uống", "cafe,cà phê,coffee,cơm,phở,bún,ăn,uống,trà sữa,milk tea,bia,rượu,nhậu,quán,restaurant,grab food,shopee food,bữa sáng,bữa trưa,bữa tối,ăn sáng,ăn trưa,ăn tối,bánh mì", model.KindExpense},
	{"Di chuyển", "xăng,grab,uber,taxi,gửi xe,parking,xe máy,ô tô,car,bike,bus,xe buýt,đi lại,vé tàu,vé xe,be,gojek", model.KindExpense},
	{"Cho vay", "cho vay,cho mượn,trả nợ,nợ", model.KindExpense},
	{"Mua sắm", "quần áo,giày dép,đồ điện tử,shopee,lazada,tiki,amazon,mua,shopping,iphone,macbook,laptop", model.KindExpense},
	{"Giải trí", "phim,movie,game,netflix,spotify,youtube,du lịch,travel,karaoke,bar,club,nhạc,concert", model.KindExpense},
	{"Làm đẹp", "mỹ phẩm,spa,nail,tóc,cắt tóc,skincare,makeup,son,kem,dưỡng", model.KindExpense},
	{"Sức khỏe", "thuốc,bệnh viện,khám bệnh,doctor,pharmacy,gym,thể dục,bảo hiểm y tế,vitamin", model.KindExpense},
	{"Từ thiện", "từ thiện,quyên góp,donate,ủng hộ,giúp đỡ", model.KindExpense},
	{"Hóa đơn", "điện,nước,internet,wifi,gas,4g,5g,điện thoại,bill,hóa đơn,tiền nhà,thuê nhà,rent", model.KindExpense},
	{"Người thân", "bố,mẹ,cha,ba,má,con,vợ,chồng,anh,chị,em,gia đình,biếu,tặng,cho,người yêu,người iu,bạn gái,bạn trai,ông,bà", model.KindExpense},
	{"Đầu tư", "đầu tư,invest,cổ phiếu,stock,crypto,bitcoin,chứng khoán,tiết kiệm,gửi tiết kiệm", model.KindExpense},
	{"Học tập", "sách,book,khóa học,course,học phí,tuition,udemy,coursera,học", model.KindExpense},
	{"Lương", "lương,salary,income,thu nhập,tiền công,wage", model.KindIncome},
	{"Thưởng", "thưởng,bonus", model.KindIncome},
	{"Thu khác", "được cho,được tặng,trả nợ,thu hồi", model.KindIncome},
	{"Khác", "", model.KindExpense},
}

// SeedCategories inserts the default category dictionary on first run. It is
// a no-op when any category already exists.
func (s *SQLiteStorage) SeedCategories(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, cat := range defaultCategories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (name, keywords, kind) VALUES (?, ?, ?)
		`, cat.name, cat.keywords, string(cat.kind)); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
