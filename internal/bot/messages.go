package bot

import (
	"fmt"

	"github.com/shopspring/decimal"

	"duitbot/internal/command"
	"duitbot/internal/core"
)

// Reply templates. Wording mirrors what the companion app's users already
// know; keep the emoji markers and section breaks intact when editing.

const (
	msgAlreadyVerified = "✅ Nomor Anda sudah terdaftar dan terverifikasi!"

	msgRegisterInstructions = "⚠️ Untuk mendaftar:\n\n" +
		"1. Buka aplikasi Finance App\n" +
		"2. Pilih menu WhatsApp Integration\n" +
		"3. Daftar nomor Anda\n" +
		"4. Kirim kode verifikasi ke sini"

	msgInvalidCode = "❌ Kode verifikasi salah atau tidak ditemukan."

	msgVerified = "✅ Verifikasi berhasil!\n\n" +
		"Sekarang Anda bisa catat transaksi:\n\n" +
		"📤 keluar 50000 makan siang\n" +
		"📥 masuk 1000000 gaji\n\n" +
		"Ketik HELP untuk bantuan."

	msgNotRegisteredBalance = "❌ Nomor belum terdaftar/terverifikasi.\nKetik DAFTAR untuk memulai."

	msgNotRegisteredRecord = "❌ Nomor belum terdaftar/terverifikasi.\n\nKetik DAFTAR untuk memulai."

	msgHelp = "📖 *PANDUAN FINANCE BOT*\n\n" +
		"🔹 Catat Pengeluaran:\n" +
		"keluar 50000 makan siang\n\n" +
		"🔹 Catat Pemasukan:\n" +
		"masuk 1000000 gaji\n\n" +
		"🔹 Cek Saldo:\n" +
		"SALDO\n\n" +
		"🔹 Bantuan:\n" +
		"HELP\n\n" +
		"💡 Kategori otomatis terdeteksi dari keterangan!"

	msgBadFormat = "❌ Format salah!\n\n" +
		"Gunakan:\n" +
		"keluar 50000 makan siang\n" +
		"masuk 1000000 gaji"

	msgUnknownType = "❌ Jenis transaksi tidak dikenal!\n\n" +
		"Gunakan \"keluar\" atau \"masuk\""

	msgInvalidAmount = "❌ Jumlah tidak valid! Masukkan angka yang benar."

	msgGenericError = "❌ Terjadi kesalahan. Silakan coba lagi."
)

func parseErrorReply(reason command.Reason) string {
	switch reason {
	case command.UnknownType:
		return msgUnknownType
	case command.InvalidAmount:
		return msgInvalidAmount
	default:
		return msgBadFormat
	}
}

func balanceReply(income, expense decimal.Decimal, count int) string {
	balance := income.Sub(expense)
	return "💰 *SALDO ANDA*\n\n" +
		fmt.Sprintf("📥 Pemasukan: Rp %s\n", core.FormatRupiah(income)) +
		fmt.Sprintf("📤 Pengeluaran: Rp %s\n", core.FormatRupiah(expense)) +
		"━━━━━━━━━━━━━━\n" +
		fmt.Sprintf("💵 Saldo: Rp %s\n\n", core.FormatRupiah(balance)) +
		fmt.Sprintf("Total Transaksi: %d", count)
}

func recordedReply(e core.Entry) string {
	kindText := "📥 Pemasukan"
	if e.Kind == core.Expense {
		kindText = "📤 Pengeluaran"
	}
	return "✅ *TRANSAKSI TERSIMPAN*\n\n" +
		kindText + "\n" +
		fmt.Sprintf("💵 Rp %s\n", core.FormatRupiah(e.Amount)) +
		fmt.Sprintf("📂 %s\n", e.Category) +
		fmt.Sprintf("📝 %s\n\n", e.Description) +
		"Ketik SALDO untuk cek saldo."
}
